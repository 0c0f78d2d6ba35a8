package main

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"posecam/internal/repository/sqlite"
)

var errSessionNotFound = errors.New("session not found")

func main() {
	dbPath := flag.String("db", "data/poses.db", "Database path")
	sessionID := flag.String("session", "", "Show joint statistics for this session only")
	limit := flag.Int("poses", 0, "Also print the first N poses of each session")
	flag.Parse()

	if err := run(*dbPath, *sessionID, *limit, os.Stdout); err != nil {
		log.Printf("⚠️  %v", err)
		os.Exit(1)
	}
}

// run prints the recorded sessions of the database at dbPath to out. The
// database is closed before run returns.
func run(dbPath, sessionID string, limit int, out io.Writer) error {
	if _, err := os.Stat(dbPath); err != nil {
		return fmt.Errorf("database not found: %w", err)
	}

	db, err := sqlite.New(dbPath)
	if err != nil {
		return fmt.Errorf("failed to open database: %w", err)
	}
	defer db.Close()

	sessions := sqlite.NewSessionRepository(db)
	poses := sqlite.NewPoseRepository(db)

	all, err := sessions.GetAll()
	if err != nil {
		return fmt.Errorf("failed to list sessions: %w", err)
	}
	if len(all) == 0 {
		fmt.Fprintln(out, "No recorded sessions")
		return nil
	}

	found := false
	for _, session := range all {
		if sessionID != "" && session.ID != sessionID {
			continue
		}
		found = true

		count, err := poses.CountBySession(session.ID)
		if err != nil {
			return fmt.Errorf("failed to count poses: %w", err)
		}

		fmt.Fprintf(out, "\n🎬 Session %s\n", session.ID)
		fmt.Fprintf(out, "   Started: %s\n", session.StartedAt.Local().Format("2006-01-02 15:04:05"))
		fmt.Fprintf(out, "   Camera:  %s\n", session.Camera)
		fmt.Fprintf(out, "   Model:   %s\n", session.Model)
		fmt.Fprintf(out, "   Poses:   %d\n", count)

		stats, err := poses.JointStats(session.ID)
		if err != nil {
			return fmt.Errorf("failed to read joint statistics: %w", err)
		}
		if len(stats) > 0 {
			fmt.Fprintf(out, "\n📊 Joint visibility:\n")
			for _, s := range stats {
				fmt.Fprintf(out, "      - %-14s %5d/%-5d (%5.1f%%) mean score %.3f\n",
					s.Joint, s.VisibleCount, s.TotalCount, 100*float64(s.VisibleCount)/float64(s.TotalCount), s.MeanScore)
			}
		}

		if limit > 0 {
			records, err := poses.GetBySession(session.ID, limit)
			if err != nil {
				return fmt.Errorf("failed to read poses: %w", err)
			}
			fmt.Fprintf(out, "\n🧍 First %d pose(s):\n", len(records))
			for _, r := range records {
				fmt.Fprintf(out, "      frame %d  %dx%d  %d joint(s) visible\n", r.FrameIndex, r.FrameWidth, r.FrameHeight, r.VisibleCount)
			}
		}
	}

	if !found {
		return fmt.Errorf("%w: %s", errSessionNotFound, sessionID)
	}
	return nil
}
