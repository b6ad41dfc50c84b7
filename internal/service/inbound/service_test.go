package inbound

import (
	"context"
	"encoding/base64"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"agencydesk/internal/model"
	"agencydesk/internal/repository"
)

type fakeStore struct {
	got    repository.InboundReconcile
	result *repository.ReconcileResult
	err    error
}

func (f *fakeStore) ReconcileInbound(_ context.Context, in repository.InboundReconcile) (*repository.ReconcileResult, error) {
	f.got = in
	return f.result, f.err
}

type fakeAttachmentStore struct {
	added []model.Attachment
	err   error
}

func (f *fakeAttachmentStore) AddAttachment(_ context.Context, a *model.Attachment) (int, error) {
	if f.err != nil {
		return 0, f.err
	}
	f.added = append(f.added, *a)
	return len(f.added), nil
}

type fakeUploader struct {
	uploads int
	err     error
}

func (f *fakeUploader) Upload(_ context.Context, filename, _ string, _ []byte) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.uploads++
	return "https://store.local/" + filename, nil
}

type fakeDeduper struct{ duplicate bool }

func (f fakeDeduper) AcquireOnce(_ context.Context, _, _ string) bool { return !f.duplicate }

type fakeFetcher struct {
	data map[string][]byte
	err  error
}

func (f fakeFetcher) Fetch(_ context.Context, url string) ([]byte, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.data[url], nil
}

func newTestService(store *fakeStore, atts *fakeAttachmentStore, up *fakeUploader, dd Deduper) *Service {
	return NewService(store, atts, up, dd, zap.NewNop()).WithFetcher(fakeFetcher{})
}

func TestProcessNormalizesSender(t *testing.T) {
	store := &fakeStore{result: &repository.ReconcileResult{ProjectID: 5, MessageID: 11}}
	svc := newTestService(store, &fakeAttachmentStore{}, &fakeUploader{}, fakeDeduper{})

	res, err := svc.Process(context.Background(), "resend", &Email{
		ProviderEventID: "evt-1",
		From:            "John Doe <John@Example.COM>",
		Subject:         "Re: design",
		Text:            "looks good",
	})

	require.NoError(t, err)
	assert.Equal(t, 5, res.ProjectID)
	assert.Equal(t, 11, res.MessageID)
	assert.False(t, res.Duplicate)
	assert.Equal(t, "john@example.com", store.got.Sender)
	assert.Equal(t, "John Doe", store.got.SenderName)
	assert.Equal(t, "looks good", store.got.Body)
}

func TestProcessInvalidSender(t *testing.T) {
	svc := newTestService(&fakeStore{}, &fakeAttachmentStore{}, &fakeUploader{}, fakeDeduper{})

	_, err := svc.Process(context.Background(), "resend", &Email{From: "not-an-address"})
	assert.Error(t, err)
}

func TestProcessDuplicateEvent(t *testing.T) {
	store := &fakeStore{}
	svc := newTestService(store, &fakeAttachmentStore{}, &fakeUploader{}, fakeDeduper{duplicate: true})

	res, err := svc.Process(context.Background(), "resend", &Email{
		ProviderEventID: "evt-1",
		From:            "a@b.com",
	})

	require.NoError(t, err)
	assert.True(t, res.Duplicate)
	assert.Empty(t, store.got.Sender, "duplicate must not reach the store")
}

func TestProcessFallsBackToHTMLBody(t *testing.T) {
	store := &fakeStore{result: &repository.ReconcileResult{}}
	svc := newTestService(store, &fakeAttachmentStore{}, &fakeUploader{}, fakeDeduper{})

	_, err := svc.Process(context.Background(), "mailjet", &Email{
		From: "a@b.com",
		HTML: "<p>hello</p>",
	})

	require.NoError(t, err)
	assert.Equal(t, "<p>hello</p>", store.got.Body)
}

func TestProcessTruncatesLastMessage(t *testing.T) {
	store := &fakeStore{result: &repository.ReconcileResult{}}
	svc := newTestService(store, &fakeAttachmentStore{}, &fakeUploader{}, fakeDeduper{})

	long := make([]byte, 500)
	for i := range long {
		long[i] = 'x'
	}

	_, err := svc.Process(context.Background(), "resend", &Email{
		From:    "a@b.com",
		Subject: string(long),
	})

	require.NoError(t, err)
	assert.Len(t, store.got.LastMessage, lastMessageMaxLen)
}

func TestProcessInlineAttachment(t *testing.T) {
	store := &fakeStore{result: &repository.ReconcileResult{MessageID: 9}}
	atts := &fakeAttachmentStore{}
	up := &fakeUploader{}
	svc := newTestService(store, atts, up, fakeDeduper{})

	_, err := svc.Process(context.Background(), "mailjet", &Email{
		From: "a@b.com",
		Attachments: []Attachment{{
			Filename:    "brief.pdf",
			ContentType: "application/pdf",
			Content:     base64.StdEncoding.EncodeToString([]byte("pdf-bytes")),
		}},
	})

	require.NoError(t, err)
	require.Len(t, atts.added, 1)
	assert.Equal(t, 9, atts.added[0].MessageID)
	assert.Equal(t, "brief.pdf", atts.added[0].Filename)
	assert.Equal(t, int64(len("pdf-bytes")), atts.added[0].SizeBytes)
	assert.Equal(t, "https://store.local/brief.pdf", atts.added[0].URL)
}

func TestProcessAttachmentFailureIsIsolated(t *testing.T) {
	store := &fakeStore{result: &repository.ReconcileResult{MessageID: 9}}
	atts := &fakeAttachmentStore{}
	svc := newTestService(store, atts, &fakeUploader{}, fakeDeduper{})

	res, err := svc.Process(context.Background(), "mailjet", &Email{
		From: "a@b.com",
		Attachments: []Attachment{
			{Filename: "bad.bin", Content: "%%% not base64 %%%"},
			{Filename: "good.txt", ContentType: "text/plain", Content: base64.StdEncoding.EncodeToString([]byte("ok"))},
		},
	})

	require.NoError(t, err, "a broken attachment must not fail the message")
	assert.Equal(t, 9, res.MessageID)
	require.Len(t, atts.added, 1)
	assert.Equal(t, "good.txt", atts.added[0].Filename)
}

func TestProcessUploadFailureIsIsolated(t *testing.T) {
	store := &fakeStore{result: &repository.ReconcileResult{MessageID: 9}}
	atts := &fakeAttachmentStore{}
	svc := newTestService(store, atts, &fakeUploader{err: errors.New("storage down")}, fakeDeduper{})

	_, err := svc.Process(context.Background(), "mailjet", &Email{
		From: "a@b.com",
		Attachments: []Attachment{
			{Filename: "brief.pdf", Content: base64.StdEncoding.EncodeToString([]byte("x"))},
		},
	})

	require.NoError(t, err)
	assert.Empty(t, atts.added)
}

func TestProcessStoreError(t *testing.T) {
	svc := newTestService(&fakeStore{err: errors.New("db down")}, &fakeAttachmentStore{}, &fakeUploader{}, fakeDeduper{})

	_, err := svc.Process(context.Background(), "resend", &Email{From: "a@b.com"})
	assert.Error(t, err)
}

func TestNormalizeAddress(t *testing.T) {
	addr, name, err := NormalizeAddress("John Doe <John@Example.COM>")
	require.NoError(t, err)
	assert.Equal(t, "john@example.com", addr)
	assert.Equal(t, "John Doe", name)

	addr, name, err = NormalizeAddress("  plain@host.io ")
	require.NoError(t, err)
	assert.Equal(t, "plain@host.io", addr)
	assert.Empty(t, name)

	_, _, err = NormalizeAddress("garbage")
	assert.Error(t, err)
}
