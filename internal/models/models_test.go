package models

import "testing"

func TestFormatPrice(t *testing.T) {
	usd := int64(1799)
	eur := int64(5000)
	jpy := int64(650000)

	tests := []struct {
		name     string
		cents    *int64
		currency string
		want     string
	}{
		{"dólar", &usd, "USD", "$17.99"},
		{"euro", &eur, "EUR", "€50.00"},
		{"iene sem casas decimais", &jpy, "JPY", "¥6500"},
		{"moeda desconhecida usa cifrão", &usd, "BRL", "$17.99"},
		{"preço ausente", nil, "USD", "price not available"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FormatPrice(tt.cents, tt.currency); got != tt.want {
				t.Errorf("FormatPrice = %q, esperado %q", got, tt.want)
			}
		})
	}
}

func TestValidRegion(t *testing.T) {
	for _, region := range []string{RegionUS, RegionEU, RegionJP} {
		if !ValidRegion(region) {
			t.Errorf("região %q deve ser válida", region)
		}
	}
	for _, region := range []string{"br", "US", ""} {
		if ValidRegion(region) {
			t.Errorf("região %q deve ser inválida", region)
		}
	}
}

func TestRegionCurrency(t *testing.T) {
	tests := map[string]string{
		RegionUS: "USD",
		RegionEU: "EUR",
		RegionJP: "JPY",
		"outra":  "USD",
	}
	for region, want := range tests {
		if got := RegionCurrency(region); got != want {
			t.Errorf("RegionCurrency(%q) = %q, esperado %q", region, got, want)
		}
	}
}
