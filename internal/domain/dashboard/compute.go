package dashboard

import (
	"fmt"
	"math"
	"sort"
	"strings"
	"time"
	"unicode/utf16"

	"github.com/shopspring/decimal"
)

const (
	riskWindow         = 15 * 24 * time.Hour
	highExpiryDays     = 3
	mediumRemainingMax = 1
	lowInactiveDays    = 25
	// Días sin uso para un paquete que nunca se usó.
	neverUsedDays = 999

	UnknownPackageLabel = "Unknown package"
)

func ComputeMetrics(c MetricCounts) Metrics {
	churn := 0.0
	if c.Total > 0 {
		churn = math.Round(float64(c.Expired)/float64(c.Total)*1000) / 10
	}
	return Metrics{
		StatusActiveCount:        c.StatusActive,
		OperationallyActiveCount: c.OperationallyActive,
		RenewalsThisMonth:        c.ActiveThisMonth,
		ChurnRate:                churn,
		RiskyClients:             c.Risky,
	}
}

// MonthStart es el primer instante del mes de now, en la zona de now.
func MonthStart(now time.Time) time.Time {
	return time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
}

// BuildActionQueue aplica la primera regla que coincide (vence pronto, pocos
// usos, inactividad) y ordena por prioridad manteniendo el orden de entrada.
func BuildActionQueue(cands []ActionCandidate, now time.Time) []ActionItem {
	items := make([]ActionItem, 0, len(cands))
	for _, c := range cands {
		if c.FirstPet == nil {
			continue
		}

		daysTillExpiry := int(math.Ceil(c.ValidUntil.Sub(now).Hours() / 24))
		daysSinceUse := neverUsedDays
		if c.LastUsedAt != nil {
			daysSinceUse = int(math.Floor(now.Sub(*c.LastUsedAt).Hours() / 24))
		}

		item := ActionItem{
			CustomerID:   c.CustomerID,
			CustomerName: c.CustomerName,
			PetName:      c.FirstPet.Name,
			PetBreed:     breedOrSpecies(*c.FirstPet),
			PetImageURL:  PetImageURL(c.FirstPet.Species),
			PackageID:    c.PackageID,
		}

		switch {
		case daysTillExpiry <= highExpiryDays:
			item.Priority = PriorityHigh
			item.Reason = fmt.Sprintf("expires in %d %s", daysTillExpiry, plural(daysTillExpiry, "day", "days"))
			item.ExpiresIn = intPtr(daysTillExpiry)
		case c.RemainingUses <= mediumRemainingMax:
			item.Priority = PriorityMedium
			item.Reason = fmt.Sprintf("%d %s remaining", c.RemainingUses, plural(c.RemainingUses, "use", "uses"))
			item.RemainingUses = intPtr(c.RemainingUses)
		case daysSinceUse >= lowInactiveDays:
			item.Priority = PriorityLow
			item.Reason = fmt.Sprintf("inactive for %d days", daysSinceUse)
			item.LastUsedDays = intPtr(daysSinceUse)
		default:
			continue
		}
		items = append(items, item)
	}

	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Priority.Rank() > items[j].Priority.Rank()
	})
	return items
}

// AggregateRevenue agrupa por nombre de tipo de paquete. Orden: ingreso
// descendente y nombre ascendente para desempatar.
func AggregateRevenue(rows []RevenueRow) []RevenueEntry {
	byName := map[string]*RevenueEntry{}
	for _, r := range rows {
		name := strings.TrimSpace(r.PackageTypeName)
		if name == "" {
			name = UnknownPackageLabel
		}
		e, ok := byName[name]
		if !ok {
			e = &RevenueEntry{Name: name, Revenue: decimal.Zero}
			byName[name] = e
		}
		e.Revenue = e.Revenue.Add(r.PurchasePrice)
		e.Packages++
	}

	out := make([]RevenueEntry, 0, len(byName))
	for _, e := range byName {
		e.Color = ColorFor(e.Name)
		out = append(out, *e)
	}
	sort.Slice(out, func(i, j int) bool {
		if c := out[i].Revenue.Cmp(out[j].Revenue); c != 0 {
			return c > 0
		}
		return out[i].Name < out[j].Name
	})
	return out
}

var namedColors = map[string]string{
	"Basic":             "#3B82F6",
	"Premium":           "#8B5CF6",
	"VIP":               "#F59E0B",
	"Monthly Bath":      "#10B981",
	"Bath & Grooming":   "#EC4899",
	UnknownPackageLabel: "#9CA3AF",
}

var palette = []string{
	"#6366F1",
	"#14B8A6",
	"#F97316",
	"#84CC16",
	"#06B6D4",
	"#E11D48",
	"#A855F7",
	"#EAB308",
}

// ColorFor es determinístico: tabla fija y si no, la paleta indexada por la
// suma de unidades UTF-16 del nombre.
func ColorFor(name string) string {
	if c, ok := namedColors[name]; ok {
		return c
	}
	sum := 0
	for _, u := range utf16.Encode([]rune(name)) {
		sum += int(u)
	}
	return palette[sum%len(palette)]
}

var petImages = map[string]string{
	"dog": "/assets/pets/dog.svg",
	"cat": "/assets/pets/cat.svg",
}

func PetImageURL(species string) string {
	if u, ok := petImages[strings.ToLower(species)]; ok {
		return u
	}
	return "/assets/pets/other.svg"
}

func breedOrSpecies(p PetSummary) string {
	if b := strings.TrimSpace(p.Breed); b != "" {
		return b
	}
	return p.Species
}

func plural(n int, one, many string) string {
	if n == 1 {
		return one
	}
	return many
}

func intPtr(v int) *int { return &v }
