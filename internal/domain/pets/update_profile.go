package pets

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"pet-grooming-manager/internal/ports/storage"
)

// patchBirthDate distingue "birth_date": null (limpiar) de "no enviado".
type patchBirthDate struct {
	Present bool
	Value   *string
}

type UpdateProfileInput struct {
	// Punteros para PATCH: nil = no tocar.
	Name          *string
	Species       *string
	Breed         *string
	Size          *string
	Sex           *string
	BirthDate     patchBirthDate
	WeightKg      *float64
	CoatType      *string
	Temperament   *string
	SpecialNeeds  *string
	PreferredFood *string
	Notes         *string
	PhotoURL      *string
}

func (s *Service) UpdateProfile(ctx context.Context, companyID, petID string, in UpdateProfileInput) (Pet, error) {
	p, err := s.GetByID(ctx, companyID, petID)
	if err != nil {
		return Pet{}, err
	}

	if in.Name != nil {
		name := strings.TrimSpace(*in.Name)
		if name == "" {
			return Pet{}, fmt.Errorf("%w: name cannot be empty", ErrInvalidInput)
		}
		p.Name = name
	}
	if in.Species != nil {
		species, ok := ParseSpecies(strings.TrimSpace(*in.Species))
		if !ok {
			return Pet{}, fmt.Errorf("%w: species must be dog, cat or other", ErrInvalidInput)
		}
		p.Species = species
	}
	if in.Size != nil {
		size, ok := ParseSize(strings.TrimSpace(*in.Size))
		if !ok {
			return Pet{}, fmt.Errorf("%w: invalid size", ErrInvalidInput)
		}
		p.Size = size
	}
	if in.Sex != nil {
		sex, ok := ParseSex(strings.TrimSpace(*in.Sex))
		if !ok {
			return Pet{}, fmt.Errorf("%w: invalid sex", ErrInvalidInput)
		}
		p.Sex = sex
	}
	if in.BirthDate.Present {
		if in.BirthDate.Value == nil {
			p.BirthDate = nil
		} else {
			t, err := time.Parse("2006-01-02", strings.TrimSpace(*in.BirthDate.Value))
			if err != nil {
				return Pet{}, fmt.Errorf("%w: birth_date must be YYYY-MM-DD", ErrInvalidInput)
			}
			p.BirthDate = &t
		}
	}
	if in.WeightKg != nil {
		if *in.WeightKg <= 0 {
			return Pet{}, fmt.Errorf("%w: weight must be positive", ErrInvalidInput)
		}
		w := *in.WeightKg
		p.WeightKg = &w
	}

	setTrimmed(&p.Breed, in.Breed)
	setTrimmed(&p.CoatType, in.CoatType)
	setTrimmed(&p.Temperament, in.Temperament)
	setTrimmed(&p.SpecialNeeds, in.SpecialNeeds)
	setTrimmed(&p.PreferredFood, in.PreferredFood)
	setTrimmed(&p.Notes, in.Notes)
	setTrimmed(&p.PhotoURL, in.PhotoURL)

	p.UpdatedAt = s.now()
	if err := s.repo.Update(ctx, p); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return Pet{}, ErrNotFound
		}
		return Pet{}, err
	}
	return p, nil
}

func setTrimmed(dst *string, v *string) {
	if v != nil {
		*dst = strings.TrimSpace(*v)
	}
}
