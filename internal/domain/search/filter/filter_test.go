package filter

import "testing"

func f64(v float64) *float64 { return &v }

func TestNew_Valid(t *testing.T) {
	pr, err := NewPriceRange(f64(1000), f64(50000))
	if err != nil {
		t.Fatalf("NewPriceRange: %v", err)
	}
	f, err := New([]string{"Samsung"}, []string{"전자제품"}, &pr)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if f.IsEmpty() {
		t.Error("filters with clauses should not be empty")
	}
	if len(f.Brands()) != 1 || f.Brands()[0] != "Samsung" {
		t.Errorf("unexpected brands: %v", f.Brands())
	}
}

func TestNew_EmptyValueRejected(t *testing.T) {
	if _, err := New([]string{""}, nil, nil); err == nil {
		t.Error("empty brand value should be rejected")
	}
	if _, err := New(nil, []string{""}, nil); err == nil {
		t.Error("empty category value should be rejected")
	}
}

func TestNew_TooManyValues(t *testing.T) {
	brands := make([]string, MaxValuesPerGroup+1)
	for i := range brands {
		brands[i] = "b"
	}
	if _, err := New(brands, nil, nil); err == nil {
		t.Error("expected error for too many brand filters")
	}
}

func TestPriceRange_Validation(t *testing.T) {
	tests := []struct {
		name     string
		min, max *float64
		wantErr  bool
	}{
		{"both nil", nil, nil, true},
		{"min only", f64(10), nil, false},
		{"max only", nil, f64(10), false},
		{"min greater than max", f64(20), f64(10), true},
		{"negative min", f64(-1), nil, true},
		{"equal bounds", f64(10), f64(10), false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := NewPriceRange(tt.min, tt.max)
			if (err != nil) != tt.wantErr {
				t.Errorf("NewPriceRange(%v, %v) err=%v, wantErr=%v", tt.min, tt.max, err, tt.wantErr)
			}
		})
	}
}

func TestIsEmpty(t *testing.T) {
	f, err := New(nil, nil, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if !f.IsEmpty() {
		t.Error("filters without clauses should be empty")
	}
}
