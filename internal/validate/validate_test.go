package validate

import (
	"math/rand"
	"strings"
	"testing"

	"github.com/iliyamo/hall-config-editor/internal/model"
)

func ptr[T any](v T) *T { return &v }

func TestFitsColumn(t *testing.T) {
	tests := []struct {
		name string
		s    string
		max  int
		want bool
	}{
		{"Short", "A1", MaxSeatNumberLen, true},
		{"Exactly full", strings.Repeat("A", MaxSeatNumberLen), MaxSeatNumberLen, true},
		{"One over", strings.Repeat("A", MaxSeatNumberLen+1), MaxSeatNumberLen, false},
		{"Multibyte counted as characters", strings.Repeat("é", MaxSeatNumberLen), MaxSeatNumberLen, true},
		{"Long shift name", strings.Repeat("x", MaxShiftNameLen+1), MaxShiftNameLen, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := FitsColumn(tt.s, tt.max); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestIsSeatNumberUnique(t *testing.T) {
	seats := []model.Seat{
		{ID: ptr(uint64(1)), SeatNumber: "A1"},
		{ID: ptr(uint64(2)), SeatNumber: "A2"},
		{SeatNumber: "B1"},
	}
	tests := []struct {
		name      string
		candidate string
		exclude   *uint64
		want      bool
	}{
		{"New number", "A3", nil, true},
		{"Existing number", "A1", nil, false},
		{"Unsaved existing number", "B1", nil, false},
		{"Case differs", "a1", nil, true},
		{"Editing itself", "A1", ptr(uint64(1)), true},
		{"Editing another", "A1", ptr(uint64(2)), false},
		{"Whitespace is significant", "A1 ", nil, true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsSeatNumberUnique(tt.candidate, seats, tt.exclude); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestIsSeatNumberUniqueRejectsRepeats(t *testing.T) {
	rng := rand.New(rand.NewSource(7))
	var seats []model.Seat
	used := map[string]bool{}
	for i := 0; i < 500; i++ {
		n := string(rune('A'+rng.Intn(26))) + string(rune('0'+rng.Intn(10)))
		unique := IsSeatNumberUnique(n, seats, nil)
		if unique == used[n] {
			t.Fatalf("number %q: unique=%v but used=%v", n, unique, used[n])
		}
		if unique {
			seats = append(seats, model.Seat{SeatNumber: n})
			used[n] = true
		}
	}
}

func TestPriceInRange(t *testing.T) {
	if !PriceInRange(nil, 10, 20) {
		t.Errorf("Expected absent price to be valid")
	}
	if !PriceInRange(ptr(10.0), 10, 20) || !PriceInRange(ptr(20.0), 10, 20) {
		t.Errorf("Expected bounds to be inclusive")
	}
	if PriceInRange(ptr(9.99), 10, 20) || PriceInRange(ptr(20.01), 10, 20) {
		t.Errorf("Expected out-of-range prices to be rejected")
	}
}

func TestClockMinutes(t *testing.T) {
	tests := []struct {
		in      string
		want    int
		wantErr bool
	}{
		{"00:00", 0, false},
		{"06:30", 390, false},
		{"23:59", 1439, false},
		{"24:00", 1440, false},
		{"9:00", 0, true},
		{"25:00", 0, true},
		{"12:60", 0, true},
		{"", 0, true},
		{"noon!", 0, true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := ClockMinutes(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Expected error=%v, got %v", tt.wantErr, err)
			}
			if got != tt.want {
				t.Errorf("Expected %d, got %d", tt.want, got)
			}
		})
	}
}

func shift(start, end string) model.Shift {
	return model.Shift{Name: start + "-" + end, StartTime: start, EndTime: end}
}

func TestShiftsNonOverlapping(t *testing.T) {
	tests := []struct {
		name   string
		shifts []model.Shift
		want   bool
	}{
		{"Empty", nil, true},
		{"Single", []model.Shift{shift("09:00", "17:00")}, true},
		{"Touching", []model.Shift{shift("06:00", "12:00"), shift("12:00", "18:00")}, true},
		{"Overlapping", []model.Shift{shift("06:00", "13:00"), shift("12:00", "18:00")}, false},
		{"Contained", []model.Shift{shift("08:00", "20:00"), shift("10:00", "11:00")}, false},
		{"Identical", []model.Shift{shift("08:00", "10:00"), shift("08:00", "10:00")}, false},
		{"Chain of three", []model.Shift{shift("00:00", "08:00"), shift("08:00", "16:00"), shift("16:00", "24:00")}, true},
		{"Late overlap in set", []model.Shift{shift("06:00", "08:00"), shift("10:00", "12:00"), shift("11:59", "13:00")}, false},
		{"Bad time", []model.Shift{shift("06:00", "08:00"), shift("xx", "12:00")}, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ShiftsNonOverlapping(tt.shifts); got != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, got)
			}
		})
	}
}

func TestShiftsNonOverlappingIsOrderIndependent(t *testing.T) {
	rng := rand.New(rand.NewSource(11))
	for round := 0; round < 300; round++ {
		n := 2 + rng.Intn(4)
		shifts := make([]model.Shift, n)
		for i := range shifts {
			a, b := rng.Intn(24*4), rng.Intn(24*4)
			if a > b {
				a, b = b, a
			}
			if a == b {
				b++
			}
			shifts[i] = shift(clock(a*15), clock(b*15))
		}
		want := ShiftsNonOverlapping(shifts)
		perm := make([]model.Shift, n)
		for i, p := range rng.Perm(n) {
			perm[i] = shifts[p]
		}
		if got := ShiftsNonOverlapping(perm); got != want {
			t.Fatalf("round %d: order changed result from %v to %v for %+v", round, want, got, shifts)
		}
	}
}

func TestFindOverlap(t *testing.T) {
	i, j, ok := FindOverlap([]model.Shift{shift("06:00", "08:00"), shift("09:00", "17:00"), shift("16:00", "20:00")})
	if !ok || i != 1 || j != 2 {
		t.Errorf("Expected overlap between 1 and 2, got %d %d %v", i, j, ok)
	}
}

func clock(min int) string {
	if min >= 24*60 {
		return EndOfDay
	}
	return string([]byte{
		byte('0' + min/60/10), byte('0' + min/60%10), ':',
		byte('0' + min%60/10), byte('0' + min%60%10),
	})
}
