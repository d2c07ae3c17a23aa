package economy

import "testing"

func TestVitals_ClampedIsIdempotent(t *testing.T) {
	v := Vitals{Hunger: 130, Energy: -20, Boredom: 50, Money: -3}
	once := v.Clamped()
	if once != once.Clamped() {
		t.Fatalf("clamp must be idempotent")
	}
	if once.Hunger != 100 || once.Energy != 0 || once.Boredom != 50 || once.Money != -3 {
		t.Fatalf("unexpected clamp %+v", once)
	}
}

func TestVitals_Decayed(t *testing.T) {
	v := Vitals{Hunger: 10, Energy: 50, Boredom: 98}
	awake := v.Decayed(false)
	if awake != (Vitals{Hunger: 15, Energy: 47, Boredom: 100}) {
		t.Fatalf("unexpected awake decay %+v", awake)
	}
	asleep := v.Decayed(true)
	if asleep.Energy != 72 || asleep.Hunger != 17 {
		t.Fatalf("unexpected sleeping decay %+v", asleep)
	}
}

func TestVitals_Critical(t *testing.T) {
	cases := []struct {
		v    Vitals
		want bool
	}{
		{Vitals{Hunger: 80, Energy: 20}, false},
		{Vitals{Hunger: 81, Energy: 50}, true},
		{Vitals{Hunger: 10, Energy: 19}, true},
	}
	for _, tc := range cases {
		if got := tc.v.Critical(); got != tc.want {
			t.Fatalf("Critical(%+v)=%v want %v", tc.v, got, tc.want)
		}
	}
}

func TestFormatMoney(t *testing.T) {
	if got := formatMoney(45); got != "$45" {
		t.Fatalf("got %q", got)
	}
	if got := formatMoney(4.5); got != "$4.5" {
		t.Fatalf("got %q", got)
	}
}
