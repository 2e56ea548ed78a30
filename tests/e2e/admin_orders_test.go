package e2e

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
)

type OrderStatusUpdateRequest struct {
	Status *string `json:"status,omitempty"`
}

func Test_AdminOrders_List_And_StatusUpdate(t *testing.T) {
	c := NewTestClient(t)
	ctx := context.Background()
	access := adminLogin(t, c, ctx)

	//対象の注文を作る（ゲスト注文）
	email := uniqueEmail("e2e_admin_orders")
	created := placeGuestOrder(t, c, ctx, email)

	//管理一覧にemailフィルタで出ること
	resp, body := c.doJSON(ctx, t, http.MethodGet, "/admin/orders?page=1&limit=20&email="+email, access, nil)
	requireStatus(t, resp, http.StatusOK, body)

	listed := mustDecodeOrderOutputs(t, body)
	if len(listed) != 1 || listed[0].Order.ID != created.Order.ID {
		t.Fatalf("order not found in admin list: body=%s", string(body))
	}

	//PROCESSING → SHIPPED
	status := "SHIPPED"
	reqJSON, _ := json.Marshal(OrderStatusUpdateRequest{Status: &status})

	resp, body = c.doJSON(ctx, t, http.MethodPatch, "/admin/orders/"+created.Order.ID, access, reqJSON)
	requireStatus(t, resp, http.StatusOK, body)

	var updated Order
	if err := json.Unmarshal(body, &updated); err != nil {
		t.Fatalf("json.Unmarshal(Order) failed: %v body=%s", err, string(body))
	}
	if updated.Status != "SHIPPED" {
		t.Fatalf("status should be SHIPPED, got=%s", updated.Status)
	}

	//公開詳細にも反映されていること
	resp, body = c.doJSON(ctx, t, http.MethodGet, "/orders/"+created.Order.ID, "", nil)
	requireStatus(t, resp, http.StatusOK, body)
	detail := mustDecodeOrderOutput(t, body)
	if detail.Order.Status != "SHIPPED" {
		t.Fatalf("public detail status should be SHIPPED, got=%s", detail.Order.Status)
	}
}

func Test_AdminOrders_Update_InvalidStatus_400(t *testing.T) {
	c := NewTestClient(t)
	ctx := context.Background()
	access := adminLogin(t, c, ctx)

	created := placeGuestOrder(t, c, ctx, uniqueEmail("e2e_admin_badstatus"))

	status := "TELEPORTED"
	reqJSON, _ := json.Marshal(OrderStatusUpdateRequest{Status: &status})

	resp, body := c.doJSON(ctx, t, http.MethodPatch, "/admin/orders/"+created.Order.ID, access, reqJSON)
	requireStatus(t, resp, http.StatusBadRequest, body)

	var er ErrorResponse
	decodeJSON(t, body, &er)
	if er.Error != "invalid status" {
		t.Fatalf("error mismatch want=%q got=%q", "invalid status", er.Error)
	}
}

func Test_AdminOrders_List_RequiresAdmin(t *testing.T) {
	c := NewTestClient(t)
	ctx := context.Background()

	resp, body := c.doJSON(ctx, t, http.MethodGet, "/admin/orders", "", nil)
	requireStatus(t, resp, http.StatusUnauthorized, body)
}

func Test_AdminOrders_List_InvalidLimit_400(t *testing.T) {
	c := NewTestClient(t)
	ctx := context.Background()
	access := adminLogin(t, c, ctx)

	resp, body := c.doJSON(ctx, t, http.MethodGet, "/admin/orders?page=1&limit=1000", access, nil)
	requireStatus(t, resp, http.StatusBadRequest, body)
}
