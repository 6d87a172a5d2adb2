package hourofday

import "testing"

func TestExtract_Table(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name string
		in   string
		want int
	}{
		{"two digit hour", "2024-01-01 14:30:00", 14},
		{"midnight", "2024-01-01 00:00:00", 0},
		{"last hour", "2024-01-01 23:59:59", 23},
		{"single digit hour colon", "2024-01-01 9:15:00", 9},
		{"single digit hour space", "2024-01-01 7 pm", 7},
		{"other date shape", "01/02/2024 7:05", 7},
		{"out of range is returned", "2024-01-01 25:00:00", 25},
		{"99 is returned", "2024-01-01 99:00:00", 99},
		{"third byte not checked", "2024-01-01 142", 14},
		{"date only", "2024-01-01", Invalid},
		{"too short", "1-1 9:00", Invalid},
		{"empty", "", Invalid},
		{"no space", "2024-01-01T14:30:00", Invalid},
		{"trailing space only", "2024-01-01 ", Invalid},
		{"one byte after space", "2024-01-01 9", Invalid},
		{"letter hour", "2024-01-01 ab:00", Invalid},
		{"digit then letter", "2024-01-01 1a:00", Invalid},
		{"digit then dash", "2024-01-01 1-00", Invalid},
		{"first space wins", "2024-01-01T14:00 x", Invalid},
		{"double space", "2024-01-01  14:00", Invalid},
	}
	for _, tt := range tests {
		if got := Extract([]byte(tt.in)); got != tt.want {
			t.Fatalf("%s: Extract(%q) = %d, want %d", tt.name, tt.in, got, tt.want)
		}
	}
}

func TestInRange(t *testing.T) {
	t.Parallel()

	for h := 0; h <= 23; h++ {
		if !InRange(h) {
			t.Fatalf("InRange(%d) = false", h)
		}
	}
	for _, h := range []int{Invalid, 24, 25, 99} {
		if InRange(h) {
			t.Fatalf("InRange(%d) = true", h)
		}
	}
}

func TestExtract_DoesNotAllocate(t *testing.T) {
	b := []byte("2024-01-01 14:30:00")
	if n := testing.AllocsPerRun(100, func() { _ = Extract(b) }); n != 0 {
		t.Fatalf("Extract allocated %.1f times per run", n)
	}
}
