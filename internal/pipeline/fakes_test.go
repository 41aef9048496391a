package pipeline

import (
	"context"
	"errors"
)

var errUpstream = errors.New("upstream unavailable")

type fakeLister struct {
	repos []Repo
	err   error
	calls int
}

func (f *fakeLister) ListRepos(_ context.Context, _ string) ([]Repo, error) {
	f.calls++
	if f.err != nil {
		return nil, f.err
	}
	return f.repos, nil
}

type fakeEmbedder struct {
	vector   []float32
	err      error
	calls    int
	lastText string
}

func (f *fakeEmbedder) Embed(_ context.Context, text string) ([]float32, error) {
	f.calls++
	f.lastText = text
	if f.err != nil {
		return nil, f.err
	}
	return f.vector, nil
}

type fakeIndex struct {
	hits     []IndexHit
	err      error
	calls    int
	lastTopK int
}

func (f *fakeIndex) Query(_ context.Context, _ []float32, topK int, _ bool) ([]IndexHit, error) {
	f.calls++
	f.lastTopK = topK
	if f.err != nil {
		return nil, f.err
	}
	return f.hits, nil
}

type fakeScorer struct {
	response string
	err      error
	calls    int
	lastUser string
}

func (f *fakeScorer) CompleteJSON(_ context.Context, _, user string) (string, error) {
	f.calls++
	f.lastUser = user
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}

type fakeCoder struct {
	response string
	err      error
	calls    int
	lastUser string
}

func (f *fakeCoder) Complete(_ context.Context, _, user string, _ int32, _ float32) (string, error) {
	f.calls++
	f.lastUser = user
	if f.err != nil {
		return "", f.err
	}
	return f.response, nil
}
