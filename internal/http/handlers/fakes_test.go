package handlers

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/rs/zerolog"

	"github.com/ivinfotech/iv-studio/internal/infra"
	"github.com/ivinfotech/iv-studio/internal/pipeline"
)

type fakeSQL struct {
	exec     func(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error)
	queryRow func(ctx context.Context, query string, args ...any) pgx.Row
	query    func(ctx context.Context, query string, args ...any) (pgx.Rows, error)
}

func (f *fakeSQL) Exec(ctx context.Context, query string, args ...any) (pgconn.CommandTag, error) {
	if f.exec != nil {
		return f.exec(ctx, query, args...)
	}
	return pgconn.CommandTag{}, nil
}

func (f *fakeSQL) QueryRow(ctx context.Context, query string, args ...any) pgx.Row {
	if f.queryRow != nil {
		return f.queryRow(ctx, query, args...)
	}
	return NewSimpleRow(nil)
}

func (f *fakeSQL) Query(ctx context.Context, query string, args ...any) (pgx.Rows, error) {
	if f.query != nil {
		return f.query(ctx, query, args...)
	}
	return nil, errors.New("query not implemented")
}

type fakePipeline struct {
	run func(ctx context.Context, req pipeline.Request) (*pipeline.Result, error)
}

func (f *fakePipeline) Run(ctx context.Context, req pipeline.Request) (*pipeline.Result, error) {
	if f.run != nil {
		return f.run(ctx, req)
	}
	return nil, errors.New("run not implemented")
}

type fakeUploader struct {
	upload func(ctx context.Context, data []byte, filename, folder string) (string, error)
}

func (f *fakeUploader) Upload(ctx context.Context, data []byte, filename, folder string) (string, error) {
	if f.upload != nil {
		return f.upload(ctx, data, filename, folder)
	}
	return "", errors.New("upload not implemented")
}

func testApp(sql *fakeSQL) *App {
	return &App{
		SQL:    sql,
		Logger: zerolog.Nop(),
		Config: &infra.Config{
			AppEnv:        "test",
			SessionKey:    "test-session-key",
			AdminEmail:    "admin@example.com",
			AdminPassword: "correct-horse",
			AdminName:     "Admin",
		},
	}
}
