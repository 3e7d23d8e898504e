package suggestion

import (
	"context"
	"errors"
	"productInfoAgent/domain"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSuggestionRepo struct {
	mu        sync.Mutex
	rows      map[uint64][]domain.Suggestion
	nextID    uint64
	creates   int
	deletes   int
	failOn    map[int]bool
	findErr   error
	deleteErr error

	afterCreate func(n int)
}

func newFakeSuggestionRepo() *fakeSuggestionRepo {
	return &fakeSuggestionRepo{rows: map[uint64][]domain.Suggestion{}, failOn: map[int]bool{}}
}

func (f *fakeSuggestionRepo) FindActiveByProduct(ctx context.Context, productID uint64) ([]domain.Suggestion, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.findErr != nil {
		return nil, f.findErr
	}

	var out []domain.Suggestion
	for _, r := range f.rows[productID] {
		if r.IsActive {
			out = append(out, r)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		if out[i].Priority != out[j].Priority {
			return out[i].Priority < out[j].Priority
		}
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out, nil
}

func (f *fakeSuggestionRepo) Create(ctx context.Context, s *domain.Suggestion) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	f.mu.Lock()
	if f.failOn[s.Priority] {
		f.mu.Unlock()
		return errors.New("insert failed")
	}
	f.nextID++
	f.creates++
	n := f.creates
	s.ID = f.nextID
	f.rows[s.ProductID] = append(f.rows[s.ProductID], *s)
	hook := f.afterCreate
	f.mu.Unlock()

	if hook != nil {
		hook(n)
	}
	return nil
}

func (f *fakeSuggestionRepo) DeleteByProduct(ctx context.Context, productID uint64) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.deletes++
	delete(f.rows, productID)
	return nil
}

func (f *fakeSuggestionRepo) age(productID uint64, createdAt time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.rows[productID] {
		f.rows[productID][i].CreatedAt = createdAt
	}
}

type fakeViewRepo struct {
	views   map[string]*domain.SuggestionView
	saveErr error
	findErr error
	saves   int
	resets  int
}

func newFakeViewRepo() *fakeViewRepo {
	return &fakeViewRepo{views: map[string]*domain.SuggestionView{}}
}

func viewKey(productID uint64, identity domain.Identity) string {
	return flightKey(productID) + "/" + identity.String()
}

func (f *fakeViewRepo) FindView(ctx context.Context, productID uint64, identity domain.Identity) (*domain.SuggestionView, error) {
	if f.findErr != nil {
		return nil, f.findErr
	}
	v, ok := f.views[viewKey(productID, identity)]
	if !ok {
		return nil, nil
	}
	cp := *v
	return &cp, nil
}

func (f *fakeViewRepo) SaveView(ctx context.Context, view *domain.SuggestionView) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.saves++
	cp := *view
	f.views[viewKey(view.ProductID, domain.Identity{CustomerID: view.CustomerID, SessionID: view.SessionID})] = &cp
	return nil
}

func (f *fakeViewRepo) DeleteView(ctx context.Context, productID uint64, identity domain.Identity) error {
	f.resets++
	delete(f.views, viewKey(productID, identity))
	return nil
}

type fakeProductRepo struct {
	products map[uint64]domain.Product
}

func (f *fakeProductRepo) FindProductByID(ctx context.Context, id uint64) (domain.Product, error) {
	p, ok := f.products[id]
	if !ok {
		return domain.Product{}, domain.ErrProductNotFound
	}
	return p, nil
}

type fakeSettings struct {
	smart     bool
	randomize bool
	perLoad   int
	lifetime  int
}

func (f *fakeSettings) SmartRotationEnabled(ctx context.Context) (bool, error) { return f.smart, nil }
func (f *fakeSettings) RandomizeEnabled(ctx context.Context) (bool, error) { return f.randomize, nil }
func (f *fakeSettings) SuggestionsPerLoad(ctx context.Context) (int, error) { return f.perLoad, nil }
func (f *fakeSettings) CacheLifetimeDays(ctx context.Context) (int, error) { return f.lifetime, nil }

var testNow = time.Date(2025, 3, 10, 14, 20, 0, 0, time.UTC)

type fixture struct {
	svc         *suggestionService
	suggestions *fakeSuggestionRepo
	views       *fakeViewRepo
	settings    *fakeSettings
	clock       time.Time
}

func newFixture(products ...domain.Product) *fixture {
	f := &fixture{
		suggestions: newFakeSuggestionRepo(),
		views:       newFakeViewRepo(),
		settings:    &fakeSettings{perLoad: 20, lifetime: 7},
		clock:       testNow,
	}

	catalog := &fakeProductRepo{products: map[uint64]domain.Product{}}
	for _, p := range products {
		catalog.products[p.ID] = p
	}

	f.svc = NewSuggestionService(f.suggestions, f.views, catalog, f.settings)
	f.svc.now = func() time.Time { return f.clock }
	f.svc.shuffle = func(n int, swap func(i, j int)) {}
	return f
}

var guest = domain.Identity{SessionID: "sess-1"}

func TestGetSuggestions_GeneratesBaseAndVariety(t *testing.T) {
	f := newFixture(domain.Product{ID: 1, Name: "Trail Shoe"})

	got, err := f.svc.GetSuggestions(context.Background(), 1, guest)
	require.NoError(t, err)

	assert.Equal(t, []string{
		"Tell me more about Trail Shoe",
		"What are the key features of this product?",
		"How do I use this product?",
		"What other products would you recommend with this?",
		"What makes this product special?",
		"Who is this product best suited for?",
		"How does this compare to similar products?",
	}, got)
	assert.Equal(t, 7, f.suggestions.creates)
}

func TestGetSuggestions_ConditionalQuestions(t *testing.T) {
	f := newFixture(domain.Product{ID: 2, Name: "Kettle", Description: "Steel", Weight: 1.2, Price: 30})

	got, err := f.svc.GetSuggestions(context.Background(), 2, guest)
	require.NoError(t, err)

	require.Len(t, got, 10)
	assert.Equal(t, "Can you summarize the description for me?", got[1])
	assert.Equal(t, "How much does this product weigh?", got[3])
	assert.Equal(t, "Is this product good value for money?", got[5])
}

func TestGetSuggestions_VarietyComesFromShuffledPool(t *testing.T) {
	f := newFixture(domain.Product{ID: 1, Name: "Lamp"})
	f.svc.shuffle = func(n int, swap func(i, j int)) {
		for i := 0; i < n/2; i++ {
			swap(i, n-1-i)
		}
	}

	got, err := f.svc.GetSuggestions(context.Background(), 1, guest)
	require.NoError(t, err)

	require.Len(t, got, 7)
	assert.ElementsMatch(t, []string{
		"What warranty or guarantee comes with this?",
		"Are there any special care instructions?",
		"What are customers saying about this product?",
	}, got[4:])
}

func TestGetSuggestions_TruncatesToPerLoad(t *testing.T) {
	f := newFixture(domain.Product{ID: 1, Name: "Lamp"})
	f.settings.perLoad = 3

	got, err := f.svc.GetSuggestions(context.Background(), 1, guest)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestGetSuggestions_ReusesCache(t *testing.T) {
	f := newFixture(domain.Product{ID: 1, Name: "Lamp"})

	first, err := f.svc.GetSuggestions(context.Background(), 1, guest)
	require.NoError(t, err)
	second, err := f.svc.GetSuggestions(context.Background(), 1, guest)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, 7, f.suggestions.creates)
	assert.Zero(t, f.suggestions.deletes)
}

func TestGetSuggestions_CacheLifetimeBoundary(t *testing.T) {
	f := newFixture(domain.Product{ID: 1, Name: "Lamp"})
	f.settings.lifetime = 3

	_, err := f.svc.GetSuggestions(context.Background(), 1, guest)
	require.NoError(t, err)

	// exactly lifetime days old is still valid
	f.suggestions.age(1, testNow.Add(-3*24*time.Hour))
	_, err = f.svc.GetSuggestions(context.Background(), 1, guest)
	require.NoError(t, err)
	assert.Equal(t, 7, f.suggestions.creates)
	assert.Zero(t, f.suggestions.deletes)

	// lifetime + 1 days is expired and regenerated wholesale
	f.suggestions.age(1, testNow.Add(-4*24*time.Hour))
	got, err := f.svc.GetSuggestions(context.Background(), 1, guest)
	require.NoError(t, err)
	assert.Len(t, got, 7)
	assert.Equal(t, 1, f.suggestions.deletes)
	assert.Equal(t, 14, f.suggestions.creates)

	rows, err := f.suggestions.FindActiveByProduct(context.Background(), 1)
	require.NoError(t, err)
	assert.Len(t, rows, 7)
}

func TestGetSuggestions_SaveFailureSkipsRow(t *testing.T) {
	f := newFixture(domain.Product{ID: 1, Name: "Lamp"})
	f.suggestions.failOn[20] = true

	got, err := f.svc.GetSuggestions(context.Background(), 1, guest)
	require.NoError(t, err)

	assert.Len(t, got, 6)
	assert.NotContains(t, got, "What are the key features of this product?")
}

func TestGetSuggestions_MissingProductReturnsEmpty(t *testing.T) {
	f := newFixture()

	got, err := f.svc.GetSuggestions(context.Background(), 99, guest)
	require.NoError(t, err)
	assert.Empty(t, got)
	assert.NotNil(t, got)
}

func TestGetSuggestions_StoreFailureReturnsError(t *testing.T) {
	f := newFixture(domain.Product{ID: 1, Name: "Lamp"})
	f.suggestions.findErr = errors.New("db down")

	_, err := f.svc.GetSuggestions(context.Background(), 1, guest)
	assert.Error(t, err)
}

func TestGetSuggestions_SmartRotation(t *testing.T) {
	f := newFixture(domain.Product{ID: 1, Name: "Lamp"})
	f.settings.smart = true
	f.settings.perLoad = 3
	ctx := context.Background()

	first, err := f.svc.GetSuggestions(ctx, 1, guest)
	require.NoError(t, err)
	second, err := f.svc.GetSuggestions(ctx, 1, guest)
	require.NoError(t, err)

	require.Len(t, first, 3)
	require.Len(t, second, 3)
	for _, q := range second {
		assert.NotContains(t, first, q)
	}

	// one unviewed left: it comes first, then already seen ones
	third, err := f.svc.GetSuggestions(ctx, 1, guest)
	require.NoError(t, err)
	require.Len(t, third, 3)
	assert.NotContains(t, first, third[0])
	assert.NotContains(t, second, third[0])
	assert.Zero(t, f.views.resets)

	// every suggestion seen: rotation restarts
	_, err = f.svc.GetSuggestions(ctx, 1, guest)
	require.NoError(t, err)
	assert.Equal(t, 1, f.views.resets)

	view, err := f.views.FindView(ctx, 1, guest)
	require.NoError(t, err)
	require.NotNil(t, view)
	ids, err := view.ViewedIDs()
	require.NoError(t, err)
	assert.Len(t, ids, 3)
}

func TestGetSuggestions_RotationIsPerIdentity(t *testing.T) {
	f := newFixture(domain.Product{ID: 1, Name: "Lamp"})
	f.settings.smart = true
	f.settings.perLoad = 3
	ctx := context.Background()

	customerID := uint64(5)
	customer := domain.Identity{CustomerID: &customerID, SessionID: "sess-1"}

	a, err := f.svc.GetSuggestions(ctx, 1, guest)
	require.NoError(t, err)
	b, err := f.svc.GetSuggestions(ctx, 1, customer)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, f.views.views, 2)
}

func TestGetSuggestions_TrackingDropsStaleIDs(t *testing.T) {
	f := newFixture(domain.Product{ID: 1, Name: "Lamp"})
	f.settings.smart = true
	f.settings.perLoad = 2
	ctx := context.Background()

	stale := &domain.SuggestionView{ProductID: 1, SessionID: guest.SessionID}
	require.NoError(t, stale.SetViewedIDs([]uint64{900, 901}))
	require.NoError(t, f.views.SaveView(ctx, stale))

	_, err := f.svc.GetSuggestions(ctx, 1, guest)
	require.NoError(t, err)

	view, err := f.views.FindView(ctx, 1, guest)
	require.NoError(t, err)
	ids, err := view.ViewedIDs()
	require.NoError(t, err)
	assert.Equal(t, []uint64{1, 2}, ids)
}

func TestGetSuggestions_ViewFailuresAreSwallowed(t *testing.T) {
	f := newFixture(domain.Product{ID: 1, Name: "Lamp"})
	f.settings.smart = true
	f.settings.perLoad = 3
	f.views.saveErr = errors.New("deadlock")

	got, err := f.svc.GetSuggestions(context.Background(), 1, guest)
	require.NoError(t, err)
	assert.Len(t, got, 3)

	f.views.findErr = errors.New("timeout")
	got, err = f.svc.GetSuggestions(context.Background(), 1, guest)
	require.NoError(t, err)
	assert.Len(t, got, 3)
}

func TestGetSuggestions_NoIdentitySkipsRotation(t *testing.T) {
	f := newFixture(domain.Product{ID: 1, Name: "Lamp"})
	f.settings.smart = true
	f.settings.perLoad = 3

	got, err := f.svc.GetSuggestions(context.Background(), 1, domain.Identity{})
	require.NoError(t, err)
	assert.Len(t, got, 3)
	assert.Zero(t, f.views.saves)
}

func TestGetSuggestions_RandomizeIsStableWithinHour(t *testing.T) {
	f := newFixture(domain.Product{ID: 1, Name: "Lamp"})
	f.settings.randomize = true
	ctx := context.Background()

	f.clock = time.Date(2025, 3, 10, 14, 1, 0, 0, time.UTC)
	a, err := f.svc.GetSuggestions(ctx, 1, guest)
	require.NoError(t, err)

	f.clock = time.Date(2025, 3, 10, 14, 59, 0, 0, time.UTC)
	b, err := f.svc.GetSuggestions(ctx, 1, guest)
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.ElementsMatch(t, a, []string{
		"Tell me more about Lamp",
		"What are the key features of this product?",
		"How do I use this product?",
		"What other products would you recommend with this?",
		"What makes this product special?",
		"Who is this product best suited for?",
		"How does this compare to similar products?",
	})
}

func TestInvalidate(t *testing.T) {
	f := newFixture(domain.Product{ID: 1, Name: "Lamp"})
	ctx := context.Background()

	_, err := f.svc.GetSuggestions(ctx, 1, guest)
	require.NoError(t, err)

	require.NoError(t, f.svc.Invalidate(ctx, 1))
	rows, err := f.suggestions.FindActiveByProduct(ctx, 1)
	require.NoError(t, err)
	assert.Empty(t, rows)

	assert.Error(t, f.svc.Invalidate(ctx, 0))
}

func TestAgeDays(t *testing.T) {
	rows := []domain.Suggestion{
		{CreatedAt: testNow.Add(-30 * time.Hour)},
		{CreatedAt: testNow.Add(-50 * time.Hour)},
	}
	assert.Equal(t, 2, ageDays(rows, testNow))
	assert.Equal(t, 0, ageDays([]domain.Suggestion{{CreatedAt: testNow.Add(time.Hour)}}, testNow))
}

func TestGetSuggestions_CallerCancelDoesNotTruncateSet(t *testing.T) {
	f := newFixture(domain.Product{ID: 1, Name: "Lamp"})

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	f.suggestions.afterCreate = func(n int) {
		if n == 2 {
			cancel()
		}
	}

	got, err := f.svc.GetSuggestions(ctx, 1, guest)
	require.NoError(t, err)
	assert.Len(t, got, 7)
	assert.Equal(t, 7, f.suggestions.creates)

	f.suggestions.afterCreate = nil
	again, err := f.svc.GetSuggestions(context.Background(), 1, guest)
	require.NoError(t, err)
	assert.Equal(t, got, again)
	assert.Equal(t, 7, f.suggestions.creates)
}

func TestGetSuggestions_ConcurrentLoadsGenerateOnce(t *testing.T) {
	f := newFixture(domain.Product{ID: 1, Name: "Lamp"})

	const callers = 16
	results := make([][]string, callers)
	errs := make([]error, callers)

	start := make(chan struct{})
	var wg sync.WaitGroup
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			<-start
			results[i], errs[i] = f.svc.GetSuggestions(context.Background(), 1, domain.Identity{})
		}(i)
	}
	close(start)
	wg.Wait()

	for i := 0; i < callers; i++ {
		require.NoError(t, errs[i])
		assert.Equal(t, results[0], results[i])
	}
	assert.Len(t, results[0], 7)
	assert.Equal(t, 7, f.suggestions.creates)
	assert.Zero(t, f.suggestions.deletes)
}

func TestInvalidate_NextLoadRegenerates(t *testing.T) {
	f := newFixture(domain.Product{ID: 1, Name: "Lamp"})
	ctx := context.Background()

	first, err := f.svc.GetSuggestions(ctx, 1, guest)
	require.NoError(t, err)
	require.Equal(t, 7, f.suggestions.creates)

	require.NoError(t, f.svc.Invalidate(ctx, 1))
	assert.Equal(t, 1, f.suggestions.deletes)

	second, err := f.svc.GetSuggestions(ctx, 1, guest)
	require.NoError(t, err)
	assert.Equal(t, first, second)
	assert.Equal(t, 14, f.suggestions.creates)

	rows, err := f.suggestions.FindActiveByProduct(ctx, 1)
	require.NoError(t, err)
	assert.Len(t, rows, 7)
}

func TestGetSuggestions_CancelledContext(t *testing.T) {
	f := newFixture(domain.Product{ID: 1, Name: "Lamp"})

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := f.svc.GetSuggestions(ctx, 1, guest)
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, f.suggestions.creates)
}
