package schedule

// Generator builds a synthetic day of flights.
type Generator struct {
	carriers     []string
	destinations []string
	deriver      *Deriver
	rng          RandomSource
}

// NewGenerator constructs a generator. The random source fully determines the output
// for a given catalog.
func NewGenerator(catalog Catalog, rng RandomSource) (*Generator, error) {
	if catalog.IsEmpty() {
		return nil, ErrEmptyCatalog
	}
	if rng == nil {
		return nil, ErrNilRandomSource
	}
	return &Generator{
		carriers:     catalog.Carriers(),
		destinations: catalog.Destinations(),
		deriver:      NewDeriver(catalog),
		rng:          rng,
	}, nil
}

// Generate walks the slot allocator until the day ends and returns the
// accepted records in chronological order.
func (g *Generator) Generate() []FlightRecord {
	allocator := NewSlotAllocator(g.rng)
	sampler := NewOutcomeSampler(g.rng)
	filter := NewCollisionFilter()

	var records []FlightRecord
	for {
		slot, ok := allocator.Next()
		if !ok {
			break
		}
		delay := sampler.Sample()
		carrier := g.carriers[g.rng.Intn(len(g.carriers))]
		destination := g.destinations[g.rng.Intn(len(g.destinations))]
		record := g.deriver.derive(carrier, destination, slot, delay)
		if !filter.Accept(record.ScheduledTime, record.ActualTime) {
			continue
		}
		records = append(records, record)
	}
	return records
}

// Import derives externally supplied rows without collision filtering.
func (g *Generator) Import(rows []RawRow) ([]FlightRecord, error) {
	return g.deriver.Import(rows)
}
