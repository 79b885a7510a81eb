package seeds

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"log"

	"github.com/lib/pq"
)

// Counts reports rows inserted by Apply.
type Counts struct {
	Programs     int64
	Trainers     int64
	Achievements int64
	Challenges   int64
	Admins       int64
}

// Hasher turns a plaintext admin password into its stored hash.
type Hasher func(password string) (string, error)

// Seeder inserts fixture rows that are not present yet. Rows are matched on
// program name, trainer name, challenge title and admin id.
type Seeder struct {
	schema string
	hash   Hasher
}

func NewSeeder(schema string, hash Hasher) *Seeder {
	return &Seeder{schema: schema, hash: hash}
}

func (s *Seeder) table(name string) string {
	if s.schema == "" {
		return pq.QuoteIdentifier(name)
	}
	return pq.QuoteIdentifier(s.schema) + "." + pq.QuoteIdentifier(name)
}

// Apply runs every insert inside tx. The caller commits.
func (s *Seeder) Apply(ctx context.Context, tx *sql.Tx, f Fixture) (Counts, error) {
	var c Counts
	var err error

	if c.Programs, err = s.seedPrograms(ctx, tx, f.Programs); err != nil {
		return c, err
	}
	if c.Trainers, c.Achievements, err = s.seedTrainers(ctx, tx, f.Trainers); err != nil {
		return c, err
	}
	if c.Challenges, err = s.seedChallenges(ctx, tx, f.Challenges); err != nil {
		return c, err
	}
	if c.Admins, err = s.seedAdmins(ctx, tx, f.Admins); err != nil {
		return c, err
	}

	log.Printf("[seeds] inserted programs=%d trainers=%d achievements=%d challenges=%d admins=%d",
		c.Programs, c.Trainers, c.Achievements, c.Challenges, c.Admins)
	return c, nil
}

func (s *Seeder) seedPrograms(ctx context.Context, tx *sql.Tx, programs []ProgramSeed) (int64, error) {
	t := s.table("programs")
	q := fmt.Sprintf(`
		INSERT INTO %s (name, description, duration, benefits, image_url)
		SELECT $1::text, $2, $3, $4, $5
		WHERE NOT EXISTS (SELECT 1 FROM %s WHERE name = $1)`, t, t)

	var inserted int64
	for _, p := range programs {
		res, err := tx.ExecContext(ctx, q, p.Name, p.Description, p.Duration, p.Cost, p.ImageURL)
		if err != nil {
			return inserted, fmt.Errorf("insert program %q: %w", p.Name, err)
		}
		n, _ := res.RowsAffected()
		inserted += n
	}
	return inserted, nil
}

func (s *Seeder) seedTrainers(ctx context.Context, tx *sql.Tx, trainers []TrainerSeed) (int64, int64, error) {
	t := s.table("trainers")
	lookup := fmt.Sprintf(`SELECT id FROM %s WHERE name = $1`, t)
	insert := fmt.Sprintf(`INSERT INTO %s (name, title, bio, image_url) VALUES ($1, $2, $3, $4) RETURNING id`, t)
	achievements := fmt.Sprintf(`
		INSERT INTO %s (trainer_id, achievement)
		SELECT $1, a FROM unnest($2::text[]) WITH ORDINALITY AS u(a, ord)
		ORDER BY ord`, s.table("achievements"))

	var trainersInserted, achievementsInserted int64
	for _, tr := range trainers {
		var id int64
		err := tx.QueryRowContext(ctx, lookup, tr.Name).Scan(&id)
		if err == nil {
			continue
		}
		if !errors.Is(err, sql.ErrNoRows) {
			return trainersInserted, achievementsInserted, fmt.Errorf("lookup trainer %q: %w", tr.Name, err)
		}

		if err := tx.QueryRowContext(ctx, insert, tr.Name, tr.Title, tr.Bio, tr.ImageURL).Scan(&id); err != nil {
			return trainersInserted, achievementsInserted, fmt.Errorf("insert trainer %q: %w", tr.Name, err)
		}
		trainersInserted++

		if len(tr.Achievements) == 0 {
			continue
		}
		res, err := tx.ExecContext(ctx, achievements, id, pq.Array(tr.Achievements))
		if err != nil {
			return trainersInserted, achievementsInserted, fmt.Errorf("insert achievements of %q: %w", tr.Name, err)
		}
		n, _ := res.RowsAffected()
		achievementsInserted += n
	}
	return trainersInserted, achievementsInserted, nil
}

// seedChallenges only flags a row current when no existing row is.
func (s *Seeder) seedChallenges(ctx context.Context, tx *sql.Tx, challenges []ChallengeSeed) (int64, error) {
	t := s.table("current_challenges")
	q := fmt.Sprintf(`
		INSERT INTO %s (title, description, image_url, is_current)
		SELECT $1::text, $2, $3, $4::boolean AND NOT EXISTS (SELECT 1 FROM %s WHERE is_current)
		WHERE NOT EXISTS (SELECT 1 FROM %s WHERE title = $1)`, t, t, t)

	var inserted int64
	for _, c := range challenges {
		res, err := tx.ExecContext(ctx, q, c.Title, c.Description, c.ImageURL, c.Current)
		if err != nil {
			return inserted, fmt.Errorf("insert challenge %q: %w", c.Title, err)
		}
		n, _ := res.RowsAffected()
		inserted += n
	}
	return inserted, nil
}

func (s *Seeder) seedAdmins(ctx context.Context, tx *sql.Tx, admins []AdminSeed) (int64, error) {
	q := fmt.Sprintf(`
		INSERT INTO %s (admin_id, hashed_password, email, name, created_at, is_active)
		VALUES ($1, $2, $3, $4, now(), true)
		ON CONFLICT (admin_id) DO NOTHING`, s.table("admins"))

	var inserted int64
	for _, a := range admins {
		secret := a.secret()
		if secret == "" {
			return inserted, fmt.Errorf("admin %q: environment variable %s is empty", a.AdminID, a.PasswordEnv)
		}
		hashed, err := s.hash(secret)
		if err != nil {
			return inserted, fmt.Errorf("hash password of admin %q: %w", a.AdminID, err)
		}
		res, err := tx.ExecContext(ctx, q, a.AdminID, hashed, a.Email, a.Name)
		if err != nil {
			return inserted, fmt.Errorf("insert admin %q: %w", a.AdminID, err)
		}
		n, _ := res.RowsAffected()
		inserted += n
	}
	return inserted, nil
}

// CountAll reports current row counts of the seeded tables.
func (s *Seeder) CountAll(ctx context.Context, tx *sql.Tx) (Counts, error) {
	var c Counts
	targets := []struct {
		table string
		dst   *int64
	}{
		{"programs", &c.Programs},
		{"trainers", &c.Trainers},
		{"achievements", &c.Achievements},
		{"current_challenges", &c.Challenges},
		{"admins", &c.Admins},
	}
	for _, t := range targets {
		q := fmt.Sprintf(`SELECT count(*) FROM %s`, s.table(t.table))
		if err := tx.QueryRowContext(ctx, q).Scan(t.dst); err != nil {
			return c, fmt.Errorf("count %s: %w", t.table, err)
		}
	}
	return c, nil
}
