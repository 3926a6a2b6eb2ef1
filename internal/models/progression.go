package models

import (
	"fmt"
	"time"

	"github.com/Conceptual-Machines/note-gen/internal/progression"
	"github.com/Conceptual-Machines/note-gen/internal/theory"
	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Progression is a stored chord progression. Chords are kept as records so a
// row can be rebuilt without regenerating it.
type Progression struct {
	ID           string `gorm:"primaryKey;type:uuid" json:"id"`
	Name         string `gorm:"not null" json:"name"`
	Key          string `gorm:"not null;index" json:"key"` // scale root, e.g. "Eb4"
	ScaleQuality string `gorm:"not null" json:"scale_quality"`
	Source       string `json:"source"` // "pattern", "numerals", "custom" or "random"

	Numerals []string             `gorm:"type:jsonb;serializer:json" json:"numerals"`
	Chords   []theory.ChordRecord `gorm:"type:jsonb;serializer:json" json:"chords"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

// BeforeCreate assigns a UUID when the caller did not
func (p *Progression) BeforeCreate(_ *gorm.DB) error {
	if p.ID == "" {
		p.ID = uuid.NewString()
	}
	return nil
}

// NewProgression snapshots a generated progression for storage
func NewProgression(prog *progression.ChordProgression, source string) *Progression {
	return &Progression{
		Name:         prog.Name,
		Key:          prog.Scale.Root().String(),
		ScaleQuality: string(prog.Scale.Quality()),
		Source:       source,
		Numerals:     append([]string(nil), prog.Numerals...),
		Chords:       prog.Records(),
	}
}

// ToChordProgression rebuilds the key and chords from the stored records
func (p *Progression) ToChordProgression() (*progression.ChordProgression, error) {
	root, err := theory.ParseNote(p.Key)
	if err != nil {
		return nil, fmt.Errorf("progression %s key: %w", p.ID, err)
	}
	quality, err := theory.ParseScaleQuality(p.ScaleQuality)
	if err != nil {
		return nil, fmt.Errorf("progression %s scale: %w", p.ID, err)
	}
	scale, err := theory.BuildScale(root, quality)
	if err != nil {
		return nil, err
	}

	out := progression.New(p.Name, scale)
	for i, rec := range p.Chords {
		chord, err := theory.ChordFromRecord(rec)
		if err != nil {
			return nil, fmt.Errorf("progression %s chord %d: %w", p.ID, i, err)
		}
		numeral := ""
		if i < len(p.Numerals) {
			numeral = p.Numerals[i]
		}
		out.Add(chord, numeral)
	}
	return out, nil
}
