package matching

import (
	"context"
	"sync"

	"github.com/ApexAppLabs/hu-counseling-bot/internal/domain"
)

var _ counselorRepo = &counselorRepoMock{}

type counselorRepoMock struct {
	ListCandidatesFunc func(ctx context.Context, topic *domain.Topic, capacity int) ([]*domain.Counselor, error)

	calls struct {
		ListCandidates []struct {
			Topic    *domain.Topic
			Capacity int
		}
	}
	lockListCandidates sync.RWMutex
}

func (mock *counselorRepoMock) ListCandidates(ctx context.Context, topic *domain.Topic, capacity int) ([]*domain.Counselor, error) {
	if mock.ListCandidatesFunc == nil {
		panic("counselorRepoMock.ListCandidatesFunc: method is nil but counselorRepo.ListCandidates was just called")
	}
	callInfo := struct {
		Topic    *domain.Topic
		Capacity int
	}{Topic: topic, Capacity: capacity}
	mock.lockListCandidates.Lock()
	mock.calls.ListCandidates = append(mock.calls.ListCandidates, callInfo)
	mock.lockListCandidates.Unlock()
	return mock.ListCandidatesFunc(ctx, topic, capacity)
}

func (mock *counselorRepoMock) ListCandidatesCalls() []struct {
	Topic    *domain.Topic
	Capacity int
} {
	mock.lockListCandidates.RLock()
	calls := mock.calls.ListCandidates
	mock.lockListCandidates.RUnlock()
	return calls
}
