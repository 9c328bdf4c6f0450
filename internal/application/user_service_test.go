package application

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/oksasatya/bookworm-oauth/internal/domain/entity"
)

type stubSearcher struct {
	docs  []entity.UserDocument
	sizes []int
}

func (s *stubSearcher) Search(_ context.Context, _ string, size int) ([]entity.UserDocument, error) {
	s.sizes = append(s.sizes, size)
	return s.docs, nil
}

func TestSearchUsers_NoIndex(t *testing.T) {
	svc := NewService(newMemUserRepo(), nil, nil)

	docs, err := svc.SearchUsers(context.Background(), "ann", 5)
	require.NoError(t, err)
	assert.NotNil(t, docs)
	assert.Empty(t, docs)
}

func TestSearchUsers_ClampsSize(t *testing.T) {
	searcher := &stubSearcher{docs: []entity.UserDocument{{ID: "u-1", Email: "a@x.com", Name: "Ann"}}}
	svc := NewService(newMemUserRepo(), searcher, nil)

	for _, size := range []int{0, 7, 51} {
		docs, err := svc.SearchUsers(context.Background(), "ann", size)
		require.NoError(t, err)
		assert.Equal(t, "u-1", docs[0].ID)
	}
	assert.Equal(t, []int{10, 7, 10}, searcher.sizes)
}

func TestGetProfile_NotFound(t *testing.T) {
	svc := NewService(newMemUserRepo(), nil, nil)

	_, err := svc.GetProfile(context.Background(), "missing")
	assert.True(t, errors.Is(err, ErrUserNotFound))
}
