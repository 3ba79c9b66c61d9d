package commands

import "testing"

func TestResolvePeriods(t *testing.T) {
	cases := []struct {
		name      string
		explicit  bool
		flagValue int
		fallback  int
		want      int
		wantErr   bool
	}{
		{"flag absent uses fallback", false, 0, 84, 84, false},
		{"explicit value wins", true, 12, 84, 12, false},
		{"explicit zero fails instead of falling back", true, 0, 84, 0, true},
		{"explicit negative fails", true, -3, 84, 0, true},
		{"bad fallback fails when flag absent", false, 0, 0, 0, true},
	}

	for _, c := range cases {
		t.Run(c.name, func(t *testing.T) {
			got, err := resolvePeriods(c.explicit, c.flagValue, c.fallback)
			if (err != nil) != c.wantErr {
				t.Fatalf("resolvePeriods(%v, %d, %d) error = %v, wantErr %v", c.explicit, c.flagValue, c.fallback, err, c.wantErr)
			}
			if err == nil && got != c.want {
				t.Errorf("resolvePeriods(%v, %d, %d) = %d, want %d", c.explicit, c.flagValue, c.fallback, got, c.want)
			}
		})
	}
}
