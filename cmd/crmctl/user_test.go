package main

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/crm-pipeline-api/internal/domain"
	"github.com/jhoicas/crm-pipeline-api/internal/domain/entity"
)

type statusUsers struct {
	memUsers
	updates int
}

func (s *statusUsers) Update(u *entity.User) error {
	s.updates++
	s.byEmail[u.Email] = u
	return nil
}

func TestSetUserStatus(t *testing.T) {
	users := &statusUsers{memUsers: memUsers{byEmail: map[string]*entity.User{
		"eva@crm.local": {ID: "u1", Email: "eva@crm.local", Status: entity.UserStatusActive},
	}}}

	u, err := setUserStatus(users, " EVA@crm.local ", entity.UserStatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, entity.UserStatusSuspended, u.Status)
	assert.Equal(t, 1, users.updates)

	_, err = setUserStatus(users, "eva@crm.local", entity.UserStatusSuspended)
	require.NoError(t, err)
	assert.Equal(t, 1, users.updates, "sin cambio no escribe")

	_, err = setUserStatus(users, "eva@crm.local", "borrado")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = setUserStatus(users, "nadie@crm.local", entity.UserStatusActive)
	assert.ErrorIs(t, err, domain.ErrUserNotFound)
}

func TestWriteUsers(t *testing.T) {
	var buf bytes.Buffer
	created := time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC)
	require.NoError(t, writeUsers(&buf, []*entity.User{
		{ID: "u1", Email: "eva@crm.local", Role: entity.RoleSales, Status: entity.UserStatusActive, CreatedAt: created},
	}))
	out := buf.String()
	assert.Contains(t, out, "EMAIL")
	assert.Contains(t, out, "eva@crm.local")
	assert.Contains(t, out, "2026-03-02")
}
