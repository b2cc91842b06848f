package repository

import (
	"context"
	"fmt"
	"os"
	"sort"
	"sync"

	"gopkg.in/yaml.v3"

	"shoe-card/models"
)

// MemoryShoeRepository keeps shoes in memory. Used by the CLI and tests.
type MemoryShoeRepository struct {
	mu    sync.RWMutex
	shoes map[string]models.Shoe
}

// NewMemoryShoeRepository creates a repository holding the given shoes
func NewMemoryShoeRepository(shoes ...models.Shoe) *MemoryShoeRepository {
	r := &MemoryShoeRepository{shoes: make(map[string]models.Shoe, len(shoes))}
	for _, s := range shoes {
		r.shoes[s.Slug] = s
	}
	return r
}

// Ensure MemoryShoeRepository implements ShoeRepositoryInterface
var _ ShoeRepositoryInterface = (*MemoryShoeRepository)(nil)

// List returns all shoes, newest release first, matching ShoeRepository
func (r *MemoryShoeRepository) List(ctx context.Context) ([]models.Shoe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	shoes := make([]models.Shoe, 0, len(r.shoes))
	for _, s := range r.shoes {
		shoes = append(shoes, s)
	}
	sort.Slice(shoes, func(i, j int) bool {
		if !shoes[i].ReleaseDate.Equal(shoes[j].ReleaseDate) {
			return shoes[i].ReleaseDate.After(shoes[j].ReleaseDate)
		}
		return shoes[i].Slug < shoes[j].Slug
	})
	return shoes, nil
}

// GetBySlug returns a single shoe, or models.ErrShoeNotFound
func (r *MemoryShoeRepository) GetBySlug(ctx context.Context, slug string) (*models.Shoe, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.shoes[slug]
	if !ok {
		return nil, fmt.Errorf("%w: %s", models.ErrShoeNotFound, slug)
	}
	return &s, nil
}

// Upsert inserts a shoe or replaces the one with the same slug
func (r *MemoryShoeRepository) Upsert(ctx context.Context, shoe models.Shoe) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.shoes[shoe.Slug] = shoe
	return nil
}

// shoeFile is the layout of a shoes YAML fixture
type shoeFile struct {
	Shoes []models.Shoe `yaml:"shoes"`
}

// LoadShoesYAML reads shoes from a YAML file
func LoadShoesYAML(path string) ([]models.Shoe, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read shoes file: %w", err)
	}
	return ParseShoesYAML(data)
}

// ParseShoesYAML decodes a document of the form "shoes: [...]"
func ParseShoesYAML(data []byte) ([]models.Shoe, error) {
	var f shoeFile
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, fmt.Errorf("failed to parse shoes file: %w", err)
	}
	return f.Shoes, nil
}
