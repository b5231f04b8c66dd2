package sales

import "testing"

func TestComputeSaleStatus(t *testing.T) {
	tests := []struct {
		name  string
		tests []SaleTest
		want  string
	}{
		{"no tests", nil, SaleActive},
		{"all pending", []SaleTest{{Status: StatusPending}, {Status: StatusPending}}, SaleActive},
		{"mixed", []SaleTest{{Status: StatusCompleted}, {Status: StatusInProgress}}, SaleActive},
		{"one completed", []SaleTest{{Status: StatusCompleted}}, SaleCompleted},
		{"all completed", []SaleTest{{Status: StatusCompleted}, {Status: StatusCompleted}}, SaleCompleted},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := ComputeSaleStatus(tc.tests); got != tc.want {
				t.Errorf("expected %q, got %q", tc.want, got)
			}
		})
	}
}

func TestNewPaymentInfo_Defaults(t *testing.T) {
	p := NewPaymentInfo(150, 0, "", "", nil)
	if p.AmountPaid != 150 {
		t.Errorf("expected amount paid 150, got %v", p.AmountPaid)
	}
	if p.Change != 0 {
		t.Errorf("expected change 0, got %v", p.Change)
	}
	if p.PaymentType != PaymentComplete {
		t.Errorf("expected type %q, got %q", PaymentComplete, p.PaymentType)
	}
	if p.PaymentMethod != MethodCash {
		t.Errorf("expected method %q, got %q", MethodCash, p.PaymentMethod)
	}
}

func TestNewPaymentInfo_Change(t *testing.T) {
	p := NewPaymentInfo(130, 200, PaymentComplete, MethodCash, nil)
	if p.Change != 70 {
		t.Errorf("expected change 70, got %v", p.Change)
	}
}

func TestNewPaymentInfo_PartialPaymentNoNegativeChange(t *testing.T) {
	p := NewPaymentInfo(200, 50, PaymentCredit, MethodBank, nil)
	if p.AmountPaid != 50 {
		t.Errorf("expected amount paid 50, got %v", p.AmountPaid)
	}
	if p.Change != 0 {
		t.Errorf("expected change 0 for underpayment, got %v", p.Change)
	}
}

func TestValidTestStatus(t *testing.T) {
	for _, s := range []string{StatusPending, StatusSampleTaken, StatusInProgress, StatusCompleted} {
		if !ValidTestStatus(s) {
			t.Errorf("expected %q to be valid", s)
		}
	}
	if ValidTestStatus("cancelled") {
		t.Error("expected cancelled to be invalid")
	}
}
