package notification

import (
	"context"
	"log"
	"sync"
)

// Dispatcherはメール送信を呼び出し元から切り離す。
// Enqueueは絶対にブロックしない。送信失敗はログに出すだけで、
// 注文処理などの呼び出し元には決して伝播させない
type Dispatcher struct {
	mailer Mailer
	ch     chan Message
	wg     sync.WaitGroup
	once   sync.Once
}

func NewDispatcher(mailer Mailer, buffer int) *Dispatcher {
	if buffer <= 0 {
		buffer = 64
	}
	d := &Dispatcher{
		mailer: mailer,
		ch:     make(chan Message, buffer),
	}

	d.wg.Add(1)
	go d.worker()

	return d
}

func (d *Dispatcher) worker() {
	defer d.wg.Done()
	for msg := range d.ch {
		if err := d.mailer.Send(context.Background(), msg); err != nil {
			log.Printf("notification: 送信失敗 subject=%q: %v", msg.Subject, err)
		}
	}
}

// キューが満杯なら破棄してログだけ出す
func (d *Dispatcher) Enqueue(msg Message) {
	select {
	case d.ch <- msg:
	default:
		log.Printf("notification: キュー満杯のため破棄 subject=%q", msg.Subject)
	}
}

// Closeは残りを送り切ってからworkerを止める
func (d *Dispatcher) Close() {
	d.once.Do(func() {
		close(d.ch)
	})
	d.wg.Wait()
}
