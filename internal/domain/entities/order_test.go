package entities

import "testing"

func TestOrderStatus_CanTransitionTo(t *testing.T) {
	cases := []struct {
		from, to OrderStatus
		want     bool
	}{
		{OrderStatusPending, OrderStatusAwaitingPayment, true},
		{OrderStatusPending, OrderStatusPaid, true},
		{OrderStatusAwaitingPayment, OrderStatusPaid, true},
		{OrderStatusAwaitingPayment, OrderStatusConfirmed, true},
		{OrderStatusAwaitingPayment, OrderStatusExpired, true},
		{OrderStatusAwaitingPayment, OrderStatusCanceled, true},
		{OrderStatusPaid, OrderStatusConfirmed, true},

		// Settled and terminal states never regress.
		{OrderStatusPaid, OrderStatusExpired, false},
		{OrderStatusPaid, OrderStatusCanceled, false},
		{OrderStatusPaid, OrderStatusAwaitingPayment, false},
		{OrderStatusConfirmed, OrderStatusPaid, false},
		{OrderStatusConfirmed, OrderStatusCanceled, false},
		{OrderStatusCanceled, OrderStatusPaid, false},
		{OrderStatusExpired, OrderStatusPaid, false},
		{OrderStatusAwaitingPayment, OrderStatusAwaitingPayment, false},
	}

	for _, tc := range cases {
		if got := tc.from.CanTransitionTo(tc.to); got != tc.want {
			t.Fatalf("%s -> %s: expected %t, got %t", tc.from, tc.to, tc.want, got)
		}
	}
}

func TestGatewayStatus_TargetOrderStatus(t *testing.T) {
	cases := []struct {
		status GatewayStatus
		want   OrderStatus
		ok     bool
	}{
		{GatewayStatusReceived, OrderStatusPaid, true},
		{GatewayStatusReceivedInCash, OrderStatusPaid, true},
		{GatewayStatusConfirmed, OrderStatusConfirmed, true},
		{GatewayStatusConfirmedByCustomer, OrderStatusConfirmed, true},
		{GatewayStatusOverdue, OrderStatusExpired, true},
		{GatewayStatusDeleted, OrderStatusCanceled, true},
		{GatewayStatusPending, "", false},
		{"REFUND_REQUESTED", "", false},
	}

	for _, tc := range cases {
		got, ok := tc.status.TargetOrderStatus()
		if got != tc.want || ok != tc.ok {
			t.Fatalf("%s: expected (%s, %t), got (%s, %t)", tc.status, tc.want, tc.ok, got, ok)
		}
	}
}

func TestGatewayStatusFromWebhookEvent(t *testing.T) {
	if s, ok := GatewayStatusFromWebhookEvent("PAYMENT_CONFIRMED"); !ok || s != GatewayStatusConfirmed {
		t.Fatalf("expected CONFIRMED, got (%s, %t)", s, ok)
	}
	if _, ok := GatewayStatusFromWebhookEvent("PAYMENT_UPDATED"); ok {
		t.Fatalf("expected unmapped event")
	}
}
