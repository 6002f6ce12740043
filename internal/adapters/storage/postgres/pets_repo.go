package postgres

import (
	"context"
	"database/sql"

	"pet-grooming-manager/internal/domain/pets"
)

type PetsRepo struct {
	db *sql.DB
}

func NewPetsRepo(db *sql.DB) *PetsRepo {
	return &PetsRepo{db: db}
}

const petColumns = `
	id, company_id, customer_id,
	name, species, breed, size, sex,
	birth_date, weight_kg,
	coat_type, temperament, special_needs, preferred_food,
	notes, photo_url,
	created_at, updated_at`

func (r *PetsRepo) Create(ctx context.Context, p pets.Pet) error {
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO pets (`+petColumns+`)
		VALUES ($1,$2,$3,$4,$5,$6,$7,$8,$9,$10,$11,$12,$13,$14,$15,$16,$17,$18)
	`,
		p.ID,
		p.CompanyID,
		p.CustomerID,
		p.Name,
		string(p.Species),
		p.Breed,
		string(p.Size),
		string(p.Sex),
		toNullTime(p.BirthDate),
		toNullFloat(p.WeightKg),
		p.CoatType,
		p.Temperament,
		p.SpecialNeeds,
		p.PreferredFood,
		p.Notes,
		p.PhotoURL,
		p.CreatedAt,
		p.UpdatedAt,
	)
	return mapErr(err)
}

func (r *PetsRepo) Update(ctx context.Context, p pets.Pet) error {
	return mustAffect(r.db.ExecContext(ctx, `
		UPDATE pets
		SET
			name = $3,
			species = $4,
			breed = $5,
			size = $6,
			sex = $7,
			birth_date = $8,
			weight_kg = $9,
			coat_type = $10,
			temperament = $11,
			special_needs = $12,
			preferred_food = $13,
			notes = $14,
			photo_url = $15,
			updated_at = $16
		WHERE id = $1 AND company_id = $2
	`,
		p.ID,
		p.CompanyID,
		p.Name,
		string(p.Species),
		p.Breed,
		string(p.Size),
		string(p.Sex),
		toNullTime(p.BirthDate),
		toNullFloat(p.WeightKg),
		p.CoatType,
		p.Temperament,
		p.SpecialNeeds,
		p.PreferredFood,
		p.Notes,
		p.PhotoURL,
		p.UpdatedAt,
	))
}

func (r *PetsRepo) GetByID(ctx context.Context, companyID, id string) (pets.Pet, error) {
	row := r.db.QueryRowContext(ctx, `
		SELECT `+petColumns+` FROM pets WHERE id = $1 AND company_id = $2
	`, id, companyID)
	return scanPet(row)
}

func (r *PetsRepo) ListByCustomer(ctx context.Context, companyID, customerID string) ([]pets.Pet, error) {
	rows, err := r.db.QueryContext(ctx, `
		SELECT `+petColumns+`
		FROM pets
		WHERE company_id = $1 AND customer_id = $2
		ORDER BY created_at ASC, id ASC
	`, companyID, customerID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	out := make([]pets.Pet, 0)
	for rows.Next() {
		p, err := scanPet(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

func scanPet(row rowScanner) (pets.Pet, error) {
	var (
		p                  pets.Pet
		species, size, sex string
		bd                 sql.NullTime
		weight             sql.NullFloat64
	)
	if err := row.Scan(
		&p.ID,
		&p.CompanyID,
		&p.CustomerID,
		&p.Name,
		&species,
		&p.Breed,
		&size,
		&sex,
		&bd,
		&weight,
		&p.CoatType,
		&p.Temperament,
		&p.SpecialNeeds,
		&p.PreferredFood,
		&p.Notes,
		&p.PhotoURL,
		&p.CreatedAt,
		&p.UpdatedAt,
	); err != nil {
		return pets.Pet{}, mapErr(err)
	}
	p.Species = pets.Species(species)
	p.Size = pets.Size(size)
	p.Sex = pets.Sex(sex)
	// birth_date es DATE: pgx lo devuelve como medianoche UTC.
	p.BirthDate = fromNullTime(bd)
	if weight.Valid {
		w := weight.Float64
		p.WeightKg = &w
	}
	return p, nil
}

func toNullFloat(f *float64) sql.NullFloat64 {
	if f == nil {
		return sql.NullFloat64{}
	}
	return sql.NullFloat64{Float64: *f, Valid: true}
}
