package response

import (
	"club-management-system/internal/governance"
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestDomain(t *testing.T) {
	cases := []struct {
		err  error
		code int32
		msg  string
	}{
		{governance.ErrDuplicateName, http.StatusBadRequest, governance.ErrDuplicateName.Error()},
		{governance.ErrClubNotFound, http.StatusBadRequest, governance.ErrClubNotFound.Error()},
		{governance.ErrInvalidWindow, http.StatusBadRequest, governance.ErrInvalidWindow.Error()},
		{governance.ErrNotClubLeader, http.StatusForbidden, governance.ErrNotClubLeader.Error()},
		{errors.New("connection reset"), http.StatusInternalServerError, ErrServerInternal.Message},
	}
	for _, tc := range cases {
		e := Domain(tc.err)
		require.Equal(t, tc.code, e.Code, tc.err.Error())
		require.Equal(t, tc.msg, e.Message)
	}
}

func TestDomainKeepsOrigin(t *testing.T) {
	e := Domain(errors.New("connection reset"))
	require.Contains(t, e.Origin, "connection reset")
	require.ErrorIs(t, e, ErrServerInternal)
}
