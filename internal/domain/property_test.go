package domain

import (
	"reflect"
	"testing"
)

func strptr(s string) *string { return &s }

func TestNormalizeCategory(t *testing.T) {
	for _, in := range []string{"arsa", "ARSA", " Daire ", "isyeri"} {
		if _, err := NormalizeCategory(in); err != nil {
			t.Errorf("NormalizeCategory(%q): unexpected error %v", in, err)
		}
	}
	if got, _ := NormalizeCategory("DAIRE"); got != CategoryDaire {
		t.Fatalf("expected lowercased category, got %q", got)
	}
	for _, in := range []string{"", "villa", "arsa2"} {
		if _, err := NormalizeCategory(in); err != ErrInvalidCategory {
			t.Errorf("NormalizeCategory(%q): expected ErrInvalidCategory, got %v", in, err)
		}
	}
}

func TestSpecsRoundTrip(t *testing.T) {
	in := []string{" Deniz manzarası ", "", "Otopark", "  ", "Asansör"}
	want := []string{"Deniz manzarası", "Otopark", "Asansör"}

	encoded := EncodeSpecs(in)
	if encoded == nil {
		t.Fatal("expected non-nil encoding")
	}
	got := DecodeSpecs(encoded)
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("round trip = %v, want %v", got, want)
	}
}

func TestEncodeSpecsEmpty(t *testing.T) {
	if EncodeSpecs(nil) != nil {
		t.Fatal("nil list must encode to nil")
	}
	if EncodeSpecs([]string{"", "   "}) != nil {
		t.Fatal("whitespace-only list must encode to nil")
	}
}

func TestDecodeSpecsMalformed(t *testing.T) {
	for _, raw := range []*string{nil, strptr(""), strptr("{not json"), strptr(`"just a string"`), strptr(`{"a":1}`)} {
		got := DecodeSpecs(raw)
		if got == nil || len(got) != 0 {
			t.Errorf("DecodeSpecs(%v) = %v, want empty list", raw, got)
		}
	}
}

func TestPropertyUpdateApply(t *testing.T) {
	price := "4.500.000 TL"
	p := Property{
		ID:       1,
		UserID:   2,
		Title:    "Eski başlık",
		Status:   "satilik",
		Category: CategoryArsa,
		Price:    strptr("1.000.000 TL"),
		Location: strptr("Kadıköy"),
	}

	patch := PropertyUpdate{
		Title:  strptr("Yeni başlık"),
		Status: strptr("KIRALIK"),
		Price:  &price,
		Specs:  &[]string{"Köşe parsel"},
	}
	patch.Apply(&p)

	if p.Title != "Yeni başlık" {
		t.Fatalf("title not applied: %q", p.Title)
	}
	if p.Status != "kiralik" {
		t.Fatalf("status must be lowercased, got %q", p.Status)
	}
	if p.Price == nil || *p.Price != price {
		t.Fatalf("price not applied: %v", p.Price)
	}
	if p.Location == nil || *p.Location != "Kadıköy" {
		t.Fatal("absent field must stay unchanged")
	}
	if got := DecodeSpecs(p.Specs); len(got) != 1 || got[0] != "Köşe parsel" {
		t.Fatalf("specs not applied: %v", got)
	}

	// Explicit empty list clears the blob; absent leaves it alone.
	clear := PropertyUpdate{Specs: &[]string{}}
	clear.Apply(&p)
	if p.Specs != nil {
		t.Fatal("empty specs patch must clear stored blob")
	}
}
