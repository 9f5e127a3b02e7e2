package onboarding

import (
	"context"
	"errors"
	"net/http"
	"testing"

	"github.com/iliyamo/hall-config-editor/internal/model"
	"github.com/iliyamo/hall-config-editor/internal/resilient"
)

type fakeBackend struct {
	createErrs []error
	creates    int
	updates    int
	pricing    map[uint64]model.Pricing
	location   map[uint64]model.Location
	pricingErr error
}

func (f *fakeBackend) CreateHall(ctx context.Context, h *model.Hall) error {
	f.creates++
	if len(f.createErrs) > 0 {
		err := f.createErrs[0]
		f.createErrs = f.createErrs[1:]
		return err
	}
	h.ID = 42
	return nil
}

func (f *fakeBackend) UpdateHall(ctx context.Context, h *model.Hall) error {
	f.updates++
	return nil
}

func (f *fakeBackend) SavePricing(ctx context.Context, hallID uint64, p model.Pricing) error {
	if f.pricingErr != nil {
		return f.pricingErr
	}
	if f.pricing == nil {
		f.pricing = map[uint64]model.Pricing{}
	}
	f.pricing[hallID] = p
	return nil
}

func (f *fakeBackend) SaveLocation(ctx context.Context, hallID uint64, l model.Location) error {
	if f.location == nil {
		f.location = map[uint64]model.Location{}
	}
	f.location[hallID] = l
	return nil
}

func newWizard(b *fakeBackend) *Wizard {
	return New(7, b, resilient.New(resilient.DefaultPolicy()))
}

func TestWizardHappyPath(t *testing.T) {
	b := &fakeBackend{}
	w := newWizard(b)
	ctx := context.Background()

	if w.State().ID == "" {
		t.Fatal("Expected wizard id to be set")
	}
	h, err := w.SubmitHall(ctx, HallInput{Name: "  Main Hall "})
	if err != nil {
		t.Fatalf("Expected hall step to succeed, got %v", err)
	}
	if h.ID != 42 || h.OwnerID != 7 || h.Name != "Main Hall" {
		t.Errorf("Expected hall 42 owned by 7, got %+v", h)
	}
	if err := w.SubmitPricing(ctx, model.Pricing{BasePrice: 12.5, Currency: "eur"}); err != nil {
		t.Fatalf("Expected pricing step to succeed, got %v", err)
	}
	if b.pricing[42].Currency != "EUR" {
		t.Errorf("Expected currency normalized to EUR, got %q", b.pricing[42].Currency)
	}
	if err := w.SubmitLocation(ctx, model.Location{Address: "1 Main St", City: "Oslo", Country: "NO"}); err != nil {
		t.Fatalf("Expected location step to succeed, got %v", err)
	}
	st := w.State()
	if st.Step != StepDone || st.Hall == nil || st.Pricing == nil || st.Location == nil {
		t.Errorf("Expected completed wizard, got %+v", st)
	}
	if _, err := w.Back(); !errors.Is(err, ErrWrongStep) {
		t.Errorf("Expected Back after done to fail, got %v", err)
	}
}

func TestWizardStepOrder(t *testing.T) {
	w := newWizard(&fakeBackend{})
	ctx := context.Background()
	if err := w.SubmitPricing(ctx, model.Pricing{BasePrice: 1, Currency: "USD"}); !errors.Is(err, ErrWrongStep) {
		t.Errorf("Expected ErrWrongStep, got %v", err)
	}
	if err := w.SubmitLocation(ctx, model.Location{Address: "a", City: "b", Country: "c"}); !errors.Is(err, ErrWrongStep) {
		t.Errorf("Expected ErrWrongStep, got %v", err)
	}
	if _, err := w.Back(); !errors.Is(err, ErrWrongStep) {
		t.Errorf("Expected Back on first step to fail, got %v", err)
	}
}

func TestWizardValidation(t *testing.T) {
	w := newWizard(&fakeBackend{})
	ctx := context.Background()
	if _, err := w.SubmitHall(ctx, HallInput{Name: " "}); !errors.Is(err, ErrNameRequired) {
		t.Errorf("Expected ErrNameRequired, got %v", err)
	}
	_, _ = w.SubmitHall(ctx, HallInput{Name: "H"})

	neg := -1.0
	for _, p := range []model.Pricing{
		{BasePrice: 0, Currency: "USD"},
		{BasePrice: 10},
		{BasePrice: 10, Currency: "USD", WeekendRate: &neg},
	} {
		if err := w.SubmitPricing(ctx, p); !errors.Is(err, ErrInvalidPricing) {
			t.Errorf("Expected ErrInvalidPricing for %+v, got %v", p, err)
		}
	}
	_ = w.SubmitPricing(ctx, model.Pricing{BasePrice: 10, Currency: "USD"})

	lat := 91.0
	if err := w.SubmitLocation(ctx, model.Location{Address: "a"}); !errors.Is(err, ErrAddressRequired) {
		t.Errorf("Expected ErrAddressRequired, got %v", err)
	}
	if err := w.SubmitLocation(ctx, model.Location{Address: "a", City: "b", Country: "c", Latitude: &lat}); !errors.Is(err, ErrInvalidCoords) {
		t.Errorf("Expected ErrInvalidCoords, got %v", err)
	}
}

func TestWizardCreateHallRetries(t *testing.T) {
	b := &fakeBackend{createErrs: []error{
		resilient.Status(0, ""),
		resilient.Status(http.StatusServiceUnavailable, ""),
	}}
	w := newWizard(b)
	if _, err := w.SubmitHall(context.Background(), HallInput{Name: "H"}); err != nil {
		t.Fatalf("Expected success on third attempt, got %v", err)
	}
	if b.creates != 3 {
		t.Errorf("Expected 3 create attempts, got %d", b.creates)
	}
}

func TestWizardFailureMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"Fallback after retries", resilient.Status(http.StatusInternalServerError, ""), "Failed to create hall. Please try again."},
		{"Payload message", resilient.Status(http.StatusConflict, "A hall with this name already exists"), "A hall with this name already exists"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := &fakeBackend{createErrs: []error{tt.err, tt.err, tt.err}}
			w := newWizard(b)
			if _, err := w.SubmitHall(context.Background(), HallInput{Name: "H"}); err == nil {
				t.Fatal("Expected failure")
			}
			st := w.State()
			if st.Step != StepHall || st.LastError != tt.want || st.Saving {
				t.Errorf("Expected to stay on hall with %q, got %+v", tt.want, st)
			}
		})
	}

	b := &fakeBackend{pricingErr: resilient.Status(http.StatusBadGateway, "")}
	w := newWizard(b)
	_, _ = w.SubmitHall(context.Background(), HallInput{Name: "H"})
	_ = w.SubmitPricing(context.Background(), model.Pricing{BasePrice: 5, Currency: "USD"})
	if got := w.State().LastError; got != "Failed to save pricing. Please try again." {
		t.Errorf("Expected pricing fallback, got %q", got)
	}
}

func TestWizardBackUpdatesHall(t *testing.T) {
	b := &fakeBackend{}
	w := newWizard(b)
	ctx := context.Background()
	_, _ = w.SubmitHall(ctx, HallInput{Name: "H"})
	step, err := w.Back()
	if err != nil || step != StepHall {
		t.Fatalf("Expected back to hall, got %s %v", step, err)
	}
	h, err := w.SubmitHall(ctx, HallInput{Name: "Renamed"})
	if err != nil {
		t.Fatalf("Expected update to succeed, got %v", err)
	}
	if b.creates != 1 || b.updates != 1 || h.ID != 42 {
		t.Errorf("Expected one create and one update of hall 42, got %d/%d id %d", b.creates, b.updates, h.ID)
	}
	if w.State().Step != StepPricing {
		t.Errorf("Expected pricing step, got %s", w.State().Step)
	}
}
