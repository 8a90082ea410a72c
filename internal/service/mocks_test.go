package service_test

import (
	"context"
	"time"

	"github.com/stretchr/testify/mock"

	"shortlink/internal/domain"
)

type mockLinkDirectory struct{ mock.Mock }

func (m *mockLinkDirectory) FindBySlug(ctx context.Context, slug string) (domain.Link, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(domain.Link), args.Error(1)
}

func (m *mockLinkDirectory) RecordClick(ctx context.Context, slug string, now time.Time) (domain.Link, error) {
	args := m.Called(ctx, slug, now)
	return args.Get(0).(domain.Link), args.Error(1)
}

func (m *mockLinkDirectory) MarkExpired(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

type mockAnalyticsLedger struct{ mock.Mock }

func (m *mockAnalyticsLedger) EnsureBucket(ctx context.Context, linkID int64, day string) (domain.AnalyticsBucket, error) {
	args := m.Called(ctx, linkID, day)
	return args.Get(0).(domain.AnalyticsBucket), args.Error(1)
}

func (m *mockAnalyticsLedger) RecordEvent(ctx context.Context, linkID int64, day, referrer, device, browser string) error {
	args := m.Called(ctx, linkID, day, referrer, device, browser)
	return args.Error(0)
}

func (m *mockAnalyticsLedger) ListByLink(ctx context.Context, linkID int64) ([]domain.AnalyticsBucket, error) {
	args := m.Called(ctx, linkID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.AnalyticsBucket), args.Error(1)
}

type mockClickCounter struct{ mock.Mock }

func (m *mockClickCounter) Incr(ctx context.Context, slug string) error {
	args := m.Called(ctx, slug)
	return args.Error(0)
}

func (m *mockClickCounter) Get(ctx context.Context, slug string) (int64, error) {
	args := m.Called(ctx, slug)
	return args.Get(0).(int64), args.Error(1)
}

type mockLinkStore struct{ mock.Mock }

func (m *mockLinkStore) NextID(ctx context.Context) (int64, error) {
	args := m.Called(ctx)
	return args.Get(0).(int64), args.Error(1)
}

func (m *mockLinkStore) Create(ctx context.Context, link *domain.Link) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *mockLinkStore) FindByOwnerAndID(ctx context.Context, ownerID, id int64) (domain.Link, error) {
	args := m.Called(ctx, ownerID, id)
	return args.Get(0).(domain.Link), args.Error(1)
}

func (m *mockLinkStore) List(ctx context.Context, ownerID int64, search string) ([]domain.Link, error) {
	args := m.Called(ctx, ownerID, search)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]domain.Link), args.Error(1)
}

func (m *mockLinkStore) Update(ctx context.Context, link *domain.Link) error {
	args := m.Called(ctx, link)
	return args.Error(0)
}

func (m *mockLinkStore) Delete(ctx context.Context, ownerID, id int64) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

type mockOwnerLinkFinder struct{ mock.Mock }

func (m *mockOwnerLinkFinder) FindByOwnerAndSlug(ctx context.Context, ownerID int64, slug string) (domain.Link, error) {
	args := m.Called(ctx, ownerID, slug)
	return args.Get(0).(domain.Link), args.Error(1)
}

type mockCodeGenerator struct{ mock.Mock }

func (m *mockCodeGenerator) Generate(id int64) (string, error) {
	args := m.Called(id)
	return args.String(0), args.Error(1)
}
