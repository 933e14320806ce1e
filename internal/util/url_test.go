package util

import "testing"

func TestNormalizeLink(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{
			"strips tracking params",
			"https://www.dealabs.com/bons-plans/lego-42181?utm_source=newsletter&utm_medium=email",
			"https://www.dealabs.com/bons-plans/lego-42181",
		},
		{
			"forces https and www host",
			"http://dealabs.com/bons-plans/lego-42181",
			"https://www.dealabs.com/bons-plans/lego-42181",
		},
		{
			"drops trailing slash",
			"https://www.dealabs.com/bons-plans/lego-42181/",
			"https://www.dealabs.com/bons-plans/lego-42181",
		},
		{
			"keeps non-tracking params",
			"https://www.dealabs.com/bons-plans/lego-42181?page=2&utm_campaign=x",
			"https://www.dealabs.com/bons-plans/lego-42181?page=2",
		},
		{
			"foreign hosts pass through",
			"https://www.vinted.fr/items/1-lego?utm_source=x",
			"https://www.vinted.fr/items/1-lego?utm_source=x",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := NormalizeLink(tt.in)
			if err != nil {
				t.Fatalf("NormalizeLink(%q) error = %v", tt.in, err)
			}
			if got != tt.want {
				t.Errorf("NormalizeLink(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}
