// seed-catalog loads course entries from a YAML file into the resources table.
//
// Existing rows are matched on (title, platform) and updated in place, so the
// script is safe to re-run after editing the seed file.
//
// Usage: go run ./scripts/seed-catalog [-commit] <seed-file.yaml>
//
// Database connection: Uses standard PG* environment variables
//
// Flags:
//
//	-commit   Write rows to the database (default is a dry run)
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"

	"github.com/jackc/pgx/v5"
	"gopkg.in/yaml.v3"
)

type seedFile struct {
	Courses []seedCourse `yaml:"courses"`
}

type seedCourse struct {
	Title         string   `yaml:"title"`
	Platform      string   `yaml:"platform"`
	SkillTags     []string `yaml:"skill_tags"`
	DurationHours int      `yaml:"duration_hours"`
	Rating        float64  `yaml:"rating"`
	CostTier      string   `yaml:"cost_tier"`
	URL           string   `yaml:"url"`
}

func (c *seedCourse) validate() error {
	if c.Title == "" || c.Platform == "" {
		return fmt.Errorf("title and platform are required")
	}
	if len(c.SkillTags) == 0 {
		return fmt.Errorf("at least one skill tag is required")
	}
	if c.DurationHours <= 0 {
		return fmt.Errorf("duration_hours must be positive")
	}
	if c.Rating < 0 || c.Rating > 5 {
		return fmt.Errorf("rating must be between 0 and 5")
	}
	switch c.CostTier {
	case "free", "freemium", "paid":
	default:
		return fmt.Errorf("cost_tier must be free, freemium, or paid")
	}
	return nil
}

func main() {
	commit := flag.Bool("commit", false, "Write rows to the database (default is a dry run)")
	flag.Parse()

	args := flag.Args()
	if len(args) < 1 {
		fmt.Fprintf(os.Stderr, "Usage: %s [-commit] <seed-file.yaml>\n", os.Args[0])
		fmt.Fprintf(os.Stderr, "\nFlags:\n")
		fmt.Fprintf(os.Stderr, "  -commit  Write rows to the database (default is a dry run)\n")
		os.Exit(1)
	}

	data, err := os.ReadFile(args[0])
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to read seed file: %v\n", err)
		os.Exit(1)
	}

	var seed seedFile
	if err := yaml.Unmarshal(data, &seed); err != nil {
		fmt.Fprintf(os.Stderr, "Failed to parse seed file: %v\n", err)
		os.Exit(1)
	}
	if len(seed.Courses) == 0 {
		fmt.Fprintf(os.Stderr, "Seed file contains no courses\n")
		os.Exit(1)
	}

	for i := range seed.Courses {
		if err := seed.Courses[i].validate(); err != nil {
			fmt.Fprintf(os.Stderr, "Course %d (%q): %v\n", i+1, seed.Courses[i].Title, err)
			os.Exit(1)
		}
	}

	if !*commit {
		fmt.Println("DRY RUN - no changes will be made")
		fmt.Println("Run with -commit to write rows")
		fmt.Println()
		for _, c := range seed.Courses {
			fmt.Printf("  %q on %s (%dh, %.1f, %s) tags=%v\n",
				c.Title, c.Platform, c.DurationHours, c.Rating, c.CostTier, c.SkillTags)
		}
		fmt.Printf("\nTotal courses that would be written: %d\n", len(seed.Courses))
		return
	}

	ctx := context.Background()

	conn, err := pgx.Connect(ctx, buildConnString())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to connect to database: %v\n", err)
		os.Exit(1)
	}
	defer conn.Close(ctx)

	inserted := 0
	for _, c := range seed.Courses {
		if err := upsertCourse(ctx, conn, c); err != nil {
			fmt.Fprintf(os.Stderr, "Failed to write %q: %v\n", c.Title, err)
			os.Exit(1)
		}
		inserted++
	}
	fmt.Printf("Total courses written: %d\n", inserted)
}

func upsertCourse(ctx context.Context, conn *pgx.Conn, c seedCourse) error {
	tags, err := json.Marshal(c.SkillTags)
	if err != nil {
		return fmt.Errorf("marshal skill tags: %w", err)
	}

	_, err = conn.Exec(ctx, `
		INSERT INTO resources (title, platform, skill_tags, duration_hours, rating, cost_tier, url)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		ON CONFLICT (title, platform) DO UPDATE SET
			skill_tags = EXCLUDED.skill_tags,
			duration_hours = EXCLUDED.duration_hours,
			rating = EXCLUDED.rating,
			cost_tier = EXCLUDED.cost_tier,
			url = EXCLUDED.url
	`, c.Title, c.Platform, tags, c.DurationHours, c.Rating, c.CostTier, c.URL)
	if err != nil {
		return fmt.Errorf("upsert failed: %w", err)
	}
	return nil
}

func buildConnString() string {
	host := getEnvOrDefault("PGHOST", "localhost")
	port := getEnvOrDefault("PGPORT", "5432")
	user := getEnvOrDefault("PGUSER", "pathway")
	password := os.Getenv("PGPASSWORD")
	dbname := getEnvOrDefault("PGDATABASE", "pathway_engine")

	connStr := fmt.Sprintf("host=%s port=%s user=%s dbname=%s sslmode=disable",
		host, port, user, dbname)
	if password != "" {
		connStr += fmt.Sprintf(" password=%s", password)
	}
	return connStr
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
