// Command requeue puts a failed post or project back on the worker queue.
//
//	requeue -post <id>
//	requeue -project <id>
package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/ivinfotech/iv-studio/internal/infra"
	"github.com/ivinfotech/iv-studio/internal/sqlinline"
)

func main() {
	var (
		postFlag    string
		projectFlag string
	)
	flag.StringVar(&postFlag, "post", "", "insta post ID to requeue (UUID)")
	flag.StringVar(&projectFlag, "project", "", "video project ID to requeue (UUID)")
	flag.Parse()

	postID := strings.TrimSpace(postFlag)
	projectID := strings.TrimSpace(projectFlag)
	if (postID == "") == (projectID == "") {
		exitWithError(errors.New("exactly one of -post or -project must be provided"))
	}

	dbURL := strings.TrimSpace(os.Getenv("DATABASE_URL"))
	if dbURL == "" {
		exitWithError(errors.New("DATABASE_URL is required"))
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	pool, err := pgxpool.New(ctx, dbURL)
	if err != nil {
		exitWithError(fmt.Errorf("failed to connect database: %w", err))
	}
	defer pool.Close()

	logger := infra.NewLogger("cli").With().Str("cmd", "requeue").Logger()
	runner := infra.NewSQLRunner(pool, logger)

	var (
		id    string
		label string
	)
	if postID != "" {
		err = runner.QueryRow(ctx, sqlinline.QRequeueFailedPost, postID).Scan(&id, &label)
	} else {
		err = runner.QueryRow(ctx, sqlinline.QRequeueFailedProject, projectID).Scan(&id, &label)
	}
	if err != nil {
		if infra.IsNoRows(err) {
			exitWithError(errors.New("no failed row with that ID"))
		}
		exitWithError(fmt.Errorf("failed to requeue: %w", err))
	}

	fmt.Printf("Requeued %s (%s)\n", id, label)
}

func exitWithError(err error) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
