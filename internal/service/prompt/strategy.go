package prompt

import (
	"github.com/panshun/climbstory-backend/internal/domain"
)

// pick applies the requested strategy to a non-empty candidate pool.
// Unknown strategies fall back to uniform random.
func (s *Service) pick(pool []domain.CatalogField, strategy domain.Strategy) domain.CatalogField {
	switch strategy {
	case domain.StrategyEasyFirst:
		return s.pickEasyFirst(pool)
	case domain.StrategyCategoryRotate:
		return s.pickCategoryRotate(pool)
	default:
		return s.pickRandom(pool)
	}
}

func (s *Service) pickRandom(pool []domain.CatalogField) domain.CatalogField {
	return pool[s.intn(len(pool))]
}

// pickEasyFirst prefers the configured low-effort fields when any are in the
// pool, choosing uniformly among them; otherwise it is plain random.
func (s *Service) pickEasyFirst(pool []domain.CatalogField) domain.CatalogField {
	easy := make([]domain.CatalogField, 0, len(pool))
	for _, field := range pool {
		if _, ok := s.easySet[field.ID]; ok {
			easy = append(easy, field)
		}
	}
	if len(easy) > 0 {
		return s.pickRandom(easy)
	}
	return s.pickRandom(pool)
}

// pickCategoryRotate walks the configured category order and chooses
// uniformly within the first category that has candidates. Falls back to
// random if no configured category matches the pool.
func (s *Service) pickCategoryRotate(pool []domain.CatalogField) domain.CatalogField {
	for _, category := range s.cfg.CategoryOrder {
		var matches []domain.CatalogField
		for _, field := range pool {
			if field.Category == category {
				matches = append(matches, field)
			}
		}
		if len(matches) > 0 {
			return s.pickRandom(matches)
		}
	}
	return s.pickRandom(pool)
}
