package domain

import "fmt"

// CatalogField is a single promptable story field from the static catalog.
type CatalogField struct {
	ID       string
	Category FieldCategory
}

// FieldCatalog is an immutable lookup over the promptable story fields.
// It is configuration data: built once at startup, never mutated by the
// scheduler.
type FieldCatalog struct {
	fields []CatalogField
	byID   map[string]CatalogField
}

// NewFieldCatalog builds a catalog from the given fields.
// Field IDs must be non-empty and unique; categories must be valid.
func NewFieldCatalog(fields []CatalogField) (*FieldCatalog, error) {
	if len(fields) == 0 {
		return nil, fmt.Errorf("catalog: no fields")
	}

	byID := make(map[string]CatalogField, len(fields))
	for _, f := range fields {
		if f.ID == "" {
			return nil, fmt.Errorf("catalog: empty field id")
		}
		if !f.Category.IsValid() {
			return nil, fmt.Errorf("catalog: field %q: invalid category %q", f.ID, f.Category)
		}
		if _, ok := byID[f.ID]; ok {
			return nil, fmt.Errorf("catalog: duplicate field id %q", f.ID)
		}
		byID[f.ID] = f
	}

	copied := make([]CatalogField, len(fields))
	copy(copied, fields)

	return &FieldCatalog{fields: copied, byID: byID}, nil
}

// Fields returns all catalog fields in declaration order.
// The returned slice is a copy and safe to modify.
func (c *FieldCatalog) Fields() []CatalogField {
	out := make([]CatalogField, len(c.fields))
	copy(out, c.fields)
	return out
}

// Lookup returns the field with the given ID.
func (c *FieldCatalog) Lookup(id string) (CatalogField, bool) {
	f, ok := c.byID[id]
	return f, ok
}

// Contains reports whether the catalog has a field with the given ID.
func (c *FieldCatalog) Contains(id string) bool {
	_, ok := c.byID[id]
	return ok
}

// Len returns the number of fields in the catalog.
func (c *FieldCatalog) Len() int { return len(c.fields) }

// defaultStoryFields is the advanced-story catalog shipped with the
// application: 31 fields across 6 categories.
var defaultStoryFields = []CatalogField{
	{ID: "memorable_moment", Category: CategoryGrowth},
	{ID: "biggest_challenge", Category: CategoryGrowth},
	{ID: "breakthrough_story", Category: CategoryGrowth},
	{ID: "first_outdoor", Category: CategoryGrowth},
	{ID: "first_grade", Category: CategoryGrowth},
	{ID: "frustrating_climb", Category: CategoryGrowth},
	{ID: "fear_management", Category: CategoryPsychology},
	{ID: "climbing_lesson", Category: CategoryPsychology},
	{ID: "failure_perspective", Category: CategoryPsychology},
	{ID: "flow_moment", Category: CategoryPsychology},
	{ID: "life_balance", Category: CategoryPsychology},
	{ID: "unexpected_gain", Category: CategoryPsychology},
	{ID: "climbing_mentor", Category: CategoryCommunity},
	{ID: "climbing_partner", Category: CategoryCommunity},
	{ID: "funny_moment", Category: CategoryCommunity},
	{ID: "favorite_spot", Category: CategoryCommunity},
	{ID: "advice_to_group", Category: CategoryCommunity},
	{ID: "climbing_space", Category: CategoryCommunity},
	{ID: "injury_recovery", Category: CategoryPractical},
	{ID: "memorable_route", Category: CategoryPractical},
	{ID: "training_method", Category: CategoryPractical},
	{ID: "effective_practice", Category: CategoryPractical},
	{ID: "technique_tip", Category: CategoryPractical},
	{ID: "gear_choice", Category: CategoryPractical},
	{ID: "dream_climb", Category: CategoryDreams},
	{ID: "climbing_trip", Category: CategoryDreams},
	{ID: "bucket_list_story", Category: CategoryDreams},
	{ID: "climbing_goal", Category: CategoryDreams},
	{ID: "climbing_style", Category: CategoryDreams},
	{ID: "climbing_inspiration", Category: CategoryDreams},
	{ID: "life_outside_climbing", Category: CategoryLife},
}

// DefaultStoryCatalog returns the built-in catalog of advanced story fields.
func DefaultStoryCatalog() *FieldCatalog {
	c, err := NewFieldCatalog(defaultStoryFields)
	if err != nil {
		// The built-in field list is validated by tests; a failure here is a
		// programming error.
		panic(err)
	}
	return c
}
