package main

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/sync/errgroup"

	"github.com/ivinfotech/iv-studio/internal/imagegen"
	"github.com/ivinfotech/iv-studio/internal/infra"
	"github.com/ivinfotech/iv-studio/internal/providers/webhook"
	"github.com/ivinfotech/iv-studio/internal/sqlinline"
)

const (
	jobPollInterval = 2 * time.Second
	reapInterval    = 10 * time.Minute
)

var errNoJobAvailable = errors.New("no job available")

type imageJob struct {
	ID           string
	FinalPrompt  string
	LogoURL      string
	CharacterURL string
}

type projectJob struct {
	ID                 string
	Title              string
	Description        string
	CompanyService     string
	HasCustomCharacter bool
	CharacterURL       string
}

type jobWorker struct {
	runner *infra.SQLRunner
	logger infra.Logger
	cfg    *infra.Config
	images *imagegen.Client
	videos *webhook.Client
}

func main() {
	_ = godotenv.Load()

	cfg, err := infra.LoadConfig()
	if err != nil {
		panic(err)
	}
	logger := infra.NewLogger(cfg.AppEnv)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	pool, err := infra.NewDBPool(ctx, cfg)
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: db connection failed")
	}
	defer pool.Close()

	images, err := imagegen.NewClient(imagegen.Options{
		APIKey:  cfg.KieAPIKey,
		BaseURL: cfg.KieBaseURL,
	})
	if err != nil {
		logger.Fatal().Err(err).Msg("worker: failed to configure image client")
	}

	var videos *webhook.Client
	if cfg.VideoWebhookURL != "" {
		videos, err = webhook.NewClient(webhook.Options{URL: cfg.VideoWebhookURL})
		if err != nil {
			logger.Fatal().Err(err).Msg("worker: failed to configure video webhook")
		}
	} else {
		logger.Warn().Msg("worker: VIDEO_WEBHOOK_URL not set, project jobs will fail")
	}

	worker := &jobWorker{
		runner: infra.NewSQLRunner(pool, logger),
		logger: logger,
		cfg:    cfg,
		images: images,
		videos: videos,
	}

	group, groupCtx := errgroup.WithContext(ctx)
	group.Go(func() error { return worker.runImageLoop(groupCtx) })
	group.Go(func() error { return worker.runProjectLoop(groupCtx) })
	group.Go(func() error { return worker.runReaper(groupCtx) })

	logger.Info().Msg("worker: started")
	if err := group.Wait(); err != nil && !errors.Is(err, context.Canceled) {
		logger.Fatal().Err(err).Msg("worker: stopped with error")
	}
	logger.Info().Msg("worker: stopped")
}

func (w *jobWorker) runImageLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		job, err := w.claimImageJob(ctx)
		if err != nil {
			if !errors.Is(err, errNoJobAvailable) {
				w.logger.Error().Err(err).Msg("worker: failed to claim image job")
			}
			if !sleepCtx(ctx, jobPollInterval) {
				return ctx.Err()
			}
			continue
		}
		w.handleImageJob(ctx, job)
	}
}

func (w *jobWorker) claimImageJob(ctx context.Context) (imageJob, error) {
	row := w.runner.QueryRow(ctx, sqlinline.QClaimPostImageJob)
	var job imageJob
	if err := row.Scan(&job.ID, &job.FinalPrompt, &job.LogoURL, &job.CharacterURL); err != nil {
		if infra.IsNoRows(err) {
			return imageJob{}, errNoJobAvailable
		}
		return imageJob{}, err
	}
	return job, nil
}

func (w *jobWorker) handleImageJob(ctx context.Context, job imageJob) {
	w.logger.Info().Str("post_id", job.ID).Msg("worker: picked image job")
	urls, err := w.images.Generate(ctx, imagegen.TaskRequest{
		Prompt:    job.FinalPrompt,
		InputURLs: []string{job.LogoURL, job.CharacterURL},
	})
	if err != nil {
		w.logger.Error().Err(err).Str("post_id", job.ID).Msg("worker: image job failed")
		w.failPost(ctx, job.ID, err)
		return
	}
	if len(urls) == 0 {
		w.failPost(ctx, job.ID, errors.New("no images returned"))
		return
	}
	if _, err := w.runner.Exec(ctx, sqlinline.QCompletePostImage, job.ID, urls); err != nil {
		w.logger.Error().Err(err).Str("post_id", job.ID).Msg("worker: complete image job failed")
		return
	}
	w.logger.Info().Str("post_id", job.ID).Int("images", len(urls)).Msg("worker: image job completed")
}

func (w *jobWorker) failPost(ctx context.Context, id string, cause error) {
	if _, err := w.runner.Exec(ctx, sqlinline.QFailPostImage, id, cause.Error()); err != nil {
		w.logger.Error().Err(err).Str("post_id", id).Msg("worker: fail image job update failed")
	}
}

func (w *jobWorker) runProjectLoop(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		default:
		}

		job, err := w.claimProjectJob(ctx)
		if err != nil {
			if !errors.Is(err, errNoJobAvailable) {
				w.logger.Error().Err(err).Msg("worker: failed to claim project job")
			}
			if !sleepCtx(ctx, jobPollInterval) {
				return ctx.Err()
			}
			continue
		}
		w.handleProjectJob(ctx, job)
	}
}

func (w *jobWorker) claimProjectJob(ctx context.Context) (projectJob, error) {
	row := w.runner.QueryRow(ctx, sqlinline.QClaimProjectJob)
	var job projectJob
	if err := row.Scan(&job.ID, &job.Title, &job.Description, &job.CompanyService, &job.HasCustomCharacter, &job.CharacterURL); err != nil {
		if infra.IsNoRows(err) {
			return projectJob{}, errNoJobAvailable
		}
		return projectJob{}, err
	}
	return job, nil
}

func (w *jobWorker) handleProjectJob(ctx context.Context, job projectJob) {
	w.logger.Info().Str("project_id", job.ID).Msg("worker: picked project job")
	if w.videos == nil {
		w.failProject(ctx, job.ID, errors.New("video webhook not configured"))
		return
	}

	// Custom characters are hosted at creation time, so the workflow always
	// receives URLs.
	characterURL := job.CharacterURL
	if characterURL == "" {
		characterURL = w.cfg.DefaultCharacterURL
	}
	result, err := w.videos.Generate(ctx, webhook.Request{
		Title:               job.Title,
		Description:         job.Description,
		CompanyService:      job.CompanyService,
		HasCustomCharacter:  job.HasCustomCharacter,
		DefaultCharacterURL: characterURL,
		DefaultLogoURL:      w.cfg.DefaultLogoURL,
	})
	if err != nil {
		w.logger.Error().Err(err).Str("project_id", job.ID).Msg("worker: project job failed")
		w.failProject(ctx, job.ID, err)
		return
	}
	if result.Scene1Img == "" && result.Scene1Vid == "" {
		w.failProject(ctx, job.ID, fmt.Errorf("workflow returned no scenes: %s", result.Raw))
		return
	}
	if _, err := w.runner.Exec(ctx, sqlinline.QCompleteProject,
		job.ID, result.Scene1Img, result.Scene1Vid, result.Scene2Img, result.Scene2Vid, result.Raw,
	); err != nil {
		w.logger.Error().Err(err).Str("project_id", job.ID).Msg("worker: complete project job failed")
		return
	}
	w.logger.Info().Str("project_id", job.ID).Msg("worker: project job completed")
}

func (w *jobWorker) failProject(ctx context.Context, id string, cause error) {
	if _, err := w.runner.Exec(ctx, sqlinline.QFailProject, id, cause.Error()); err != nil {
		w.logger.Error().Err(err).Str("project_id", id).Msg("worker: fail project update failed")
	}
}

// runReaper fails rows stuck in processing, once at startup and then on an
// interval, so crashed runs do not hold jobs forever.
func (w *jobWorker) runReaper(ctx context.Context) error {
	w.reapOnce(ctx)
	ticker := time.NewTicker(reapInterval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			w.reapOnce(ctx)
		}
	}
}

func (w *jobWorker) reapOnce(ctx context.Context) {
	if tag, err := w.runner.Exec(ctx, sqlinline.QReapStalePosts); err != nil {
		w.logger.Error().Err(err).Msg("worker: reap stale posts failed")
	} else if tag.RowsAffected() > 0 {
		w.logger.Warn().Int64("count", tag.RowsAffected()).Msg("worker: reaped stale posts")
	}
	if tag, err := w.runner.Exec(ctx, sqlinline.QReapStaleProjects); err != nil {
		w.logger.Error().Err(err).Msg("worker: reap stale projects failed")
	} else if tag.RowsAffected() > 0 {
		w.logger.Warn().Int64("count", tag.RowsAffected()).Msg("worker: reaped stale projects")
	}
}

func sleepCtx(ctx context.Context, d time.Duration) bool {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return false
	case <-timer.C:
		return true
	}
}
