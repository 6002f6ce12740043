package dashboard

import (
	"reflect"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

var testNow = time.Date(2025, 12, 22, 10, 0, 0, 0, time.UTC)

func daysFromNow(d float64) time.Time {
	return testNow.Add(time.Duration(d * 24 * float64(time.Hour)))
}

func cand(id string, validUntil time.Time, remaining int, lastUsed *time.Time) ActionCandidate {
	return ActionCandidate{
		PackageID:     id,
		CustomerID:    "cu-" + id,
		CustomerName:  "Cliente " + id,
		RemainingUses: remaining,
		ValidUntil:    validUntil,
		FirstPet:      &PetSummary{Name: "Milo", Species: "dog"},
		LastUsedAt:    lastUsed,
	}
}

func TestComputeMetrics_ZeroStateAndChurn(t *testing.T) {
	if got := ComputeMetrics(MetricCounts{}); got != (Metrics{}) {
		t.Fatalf("expected zero metrics, got %+v", got)
	}

	got := ComputeMetrics(MetricCounts{StatusActive: 5, OperationallyActive: 3, ActiveThisMonth: 2, Expired: 1, Total: 3, Risky: 4})
	if got.ChurnRate != 33.3 {
		t.Fatalf("expected churn 33.3, got %v", got.ChurnRate)
	}
	if got.StatusActiveCount != 5 || got.OperationallyActiveCount != 3 || got.RenewalsThisMonth != 2 || got.RiskyClients != 4 {
		t.Fatalf("unexpected metrics: %+v", got)
	}

	if got := ComputeMetrics(MetricCounts{Expired: 2, Total: 3}); got.ChurnRate != 66.7 {
		t.Fatalf("expected churn 66.7, got %v", got.ChurnRate)
	}
}

func TestMonthStart_UsesClockLocation(t *testing.T) {
	loc := time.FixedZone("ART", -3*3600)
	now := time.Date(2025, 12, 1, 1, 0, 0, 0, loc)
	if got := MonthStart(now); !got.Equal(time.Date(2025, 12, 1, 0, 0, 0, 0, loc)) {
		t.Fatalf("unexpected month start: %s", got)
	}
}

func TestBuildActionQueue_PriorityOrderIgnoresInputOrder(t *testing.T) {
	thirtyDaysAgo := daysFromNow(-30)
	low := cand("low", daysFromNow(20), 5, &thirtyDaysAgo)
	medium := cand("medium", daysFromNow(20), 1, nil)
	high := cand("high", daysFromNow(1), 5, nil)

	items := BuildActionQueue([]ActionCandidate{low, medium, high}, testNow)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	got := []Priority{items[0].Priority, items[1].Priority, items[2].Priority}
	want := []Priority{PriorityHigh, PriorityMedium, PriorityLow}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("expected %v, got %v", want, got)
	}

	if items[0].Reason != "expires in 1 day" || items[0].ExpiresIn == nil || *items[0].ExpiresIn != 1 {
		t.Fatalf("unexpected high item: %+v", items[0])
	}
	if items[0].RemainingUses != nil || items[0].LastUsedDays != nil {
		t.Fatalf("expected only expires_in on high item")
	}
	if items[1].Reason != "1 use remaining" || items[1].RemainingUses == nil || items[1].ExpiresIn != nil {
		t.Fatalf("unexpected medium item: %+v", items[1])
	}
	if items[2].Reason != "inactive for 30 days" || items[2].LastUsedDays == nil || *items[2].LastUsedDays != 30 {
		t.Fatalf("unexpected low item: %+v", items[2])
	}
}

func TestBuildActionQueue_FirstRuleWins(t *testing.T) {
	items := BuildActionQueue([]ActionCandidate{cand("p", daysFromNow(2), 1, nil)}, testNow)
	if len(items) != 1 || items[0].Priority != PriorityHigh || items[0].RemainingUses != nil {
		t.Fatalf("expected a single high item, got %+v", items)
	}
	if items[0].Reason != "expires in 2 days" {
		t.Fatalf("unexpected reason %q", items[0].Reason)
	}
}

func TestBuildActionQueue_SkipsAndSentinels(t *testing.T) {
	recent := daysFromNow(-3)
	noPet := cand("nopet", daysFromNow(1), 5, nil)
	noPet.FirstPet = nil
	healthy := cand("healthy", daysFromNow(20), 5, &recent)
	neverUsed := cand("never", daysFromNow(20), 5, nil)

	items := BuildActionQueue([]ActionCandidate{noPet, healthy, neverUsed}, testNow)
	if len(items) != 1 || items[0].PackageID != "never" {
		t.Fatalf("expected only the never-used package, got %+v", items)
	}
	if *items[0].LastUsedDays != 999 || items[0].Reason != "inactive for 999 days" {
		t.Fatalf("expected 999 sentinel, got %+v", items[0])
	}
}

func TestBuildActionQueue_CeilDaysAndStableTies(t *testing.T) {
	a := cand("a", testNow.Add(2*time.Hour), 5, nil)  // ceil -> 1
	b := cand("b", testNow, 5, nil)                   // 0
	c := cand("c", testNow.Add(73*time.Hour), 5, nil) // ceil(3.04) -> 4, cae en low por nunca usado

	items := BuildActionQueue([]ActionCandidate{a, b, c}, testNow)
	if len(items) != 3 {
		t.Fatalf("expected 3 items, got %d", len(items))
	}
	if items[0].PackageID != "a" || items[1].PackageID != "b" {
		t.Fatalf("expected ties to keep input order, got %s %s", items[0].PackageID, items[1].PackageID)
	}
	if *items[0].ExpiresIn != 1 || *items[1].ExpiresIn != 0 {
		t.Fatalf("unexpected ceil days: %d %d", *items[0].ExpiresIn, *items[1].ExpiresIn)
	}
	if items[2].Priority != PriorityLow {
		t.Fatalf("expected 4 days to miss the high rule, got %s", items[2].Priority)
	}
}

func TestBuildActionQueue_PetFields(t *testing.T) {
	c := cand("p", daysFromNow(1), 5, nil)
	c.FirstPet = &PetSummary{Name: "Luna", Species: "cat"}

	items := BuildActionQueue([]ActionCandidate{c}, testNow)
	if items[0].PetBreed != "cat" || items[0].PetImageURL != "/assets/pets/cat.svg" || items[0].PetName != "Luna" {
		t.Fatalf("unexpected pet fields: %+v", items[0])
	}

	c.FirstPet = &PetSummary{Name: "Rex", Species: "dog", Breed: "Beagle"}
	items = BuildActionQueue([]ActionCandidate{c}, testNow)
	if items[0].PetBreed != "Beagle" {
		t.Fatalf("expected breed, got %q", items[0].PetBreed)
	}
}

func TestAggregateRevenue_GroupsAndSorts(t *testing.T) {
	rows := []RevenueRow{
		{PackageTypeName: "Premium", PurchasePrice: decimal.RequireFromString("100.00")},
		{PackageTypeName: "", PurchasePrice: decimal.RequireFromString("50.00")},
		{PackageTypeName: "Basic", PurchasePrice: decimal.RequireFromString("100.00")},
		{PackageTypeName: "Premium", PurchasePrice: decimal.RequireFromString("20.50")},
		{PackageTypeName: "Alpha", PurchasePrice: decimal.RequireFromString("100")},
	}

	got := AggregateRevenue(rows)
	names := []string{}
	for _, e := range got {
		names = append(names, e.Name)
	}
	want := []string{"Premium", "Alpha", "Basic", UnknownPackageLabel}
	if !reflect.DeepEqual(names, want) {
		t.Fatalf("expected order %v, got %v", want, names)
	}
	if !got[0].Revenue.Equal(decimal.RequireFromString("120.50")) || got[0].Packages != 2 {
		t.Fatalf("unexpected premium entry: %+v", got[0])
	}
	if got[2].Color != "#3B82F6" {
		t.Fatalf("expected fixed colour for Basic, got %s", got[2].Color)
	}

	again := AggregateRevenue(rows)
	if !reflect.DeepEqual(got, again) {
		t.Fatalf("expected identical result on re-run")
	}
}

func TestColorFor_UTF16Sum(t *testing.T) {
	// 'a'+'b' = 195, 195 % 8 = 3
	if got := ColorFor("ab"); got != palette[3] {
		t.Fatalf("expected %s, got %s", palette[3], got)
	}
	// Par sustituto: 0xD83D + 0xDC36 = 111731, % 8 = 3
	if got := ColorFor("🐶"); got != palette[3] {
		t.Fatalf("expected surrogate pair sum to pick %s, got %s", palette[3], got)
	}
	if ColorFor("Bath & Grooming") != "#EC4899" {
		t.Fatalf("expected fixed table colour")
	}
}
