package governance_test

import (
	"club-management-system/internal/governance"
	"club-management-system/internal/model"
	"club-management-system/test"
	"fmt"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/require"
)

var uploads atomic.Int64

// applyInput 每次使用新的上传文件
func applyInput(name string) governance.ApplyClubInput {
	n := uploads.Add(1)
	return governance.ApplyClubInput{
		Name:        name,
		Type:        model.ClubArts,
		Description: "we play",
		CoverImage:  fmt.Sprintf("/uploads/clubs/covers/%d.png", n),
		Materials:   fmt.Sprintf("/uploads/clubs/materials/%d.png", n),
	}
}

func TestApplyClub(t *testing.T) {
	f := setup(t)
	alice := test.CreateUser(t, f.db, "alice", model.RoleUser)

	club, err := f.engine.ApplyClub(f.db, actor(alice), applyInput("  Chess Club "))
	require.NoError(t, err)
	require.Equal(t, "Chess Club", club.Name)
	require.Equal(t, model.StatusPending, club.Status)
	require.Equal(t, alice.ID, club.LeaderID)

	_, err = f.engine.ApplyClub(f.db, actor(alice), applyInput("Chess Club"))
	require.ErrorIs(t, err, governance.ErrDuplicateName)

	// 名称区分大小写
	_, err = f.engine.ApplyClub(f.db, actor(alice), applyInput("chess club"))
	require.NoError(t, err)

	_, err = f.engine.ApplyClub(f.db, actor(alice), governance.ApplyClubInput{Name: "x", Type: "DANCE", Description: "d"})
	require.ErrorIs(t, err, governance.ErrInvalidClubType)
	_, err = f.engine.ApplyClub(f.db, actor(alice), governance.ApplyClubInput{Name: " ", Type: model.ClubArts, Description: "d"})
	require.ErrorIs(t, err, governance.ErrInvalidInput)
	_, err = f.engine.ApplyClub(f.db, governance.Actor{ID: 404, Role: model.RoleUser}, applyInput("Ghost"))
	require.ErrorIs(t, err, governance.ErrUserNotFound)
}

func TestRejectedClubFreesName(t *testing.T) {
	f := setup(t)
	alice := test.CreateUser(t, f.db, "alice", model.RoleUser)

	club, err := f.engine.ApplyClub(f.db, actor(alice), applyInput("Chess Club"))
	require.NoError(t, err)
	_, err = f.engine.ApplyClub(f.db, actor(alice), applyInput("Chess Club"))
	require.ErrorIs(t, err, governance.ErrDuplicateName)

	_, err = f.engine.AuditClub(f.db, f.admin, club.ID, model.StatusRejected)
	require.NoError(t, err)

	again, err := f.engine.ApplyClub(f.db, actor(alice), applyInput("Chess Club"))
	require.NoError(t, err)
	require.NotEqual(t, club.ID, again.ID)
}

func TestAuditClubApprove(t *testing.T) {
	f := setup(t)
	alice := test.CreateUser(t, f.db, "alice", model.RoleUser)
	club, err := f.engine.ApplyClub(f.db, actor(alice), applyInput("Go Club"))
	require.NoError(t, err)

	approved, err := f.engine.AuditClub(f.db, f.admin, club.ID, model.StatusApproved)
	require.NoError(t, err)
	require.Equal(t, model.StatusApproved, approved.Status)

	require.Equal(t, model.RoleLeader, test.Reload(t, f.db, alice).Role)
	require.Equal(t, []uint{alice.ID}, f.roles.invalidated)
	require.Empty(t, f.assets.deleted)

	var m model.Membership
	require.NoError(t, f.db.Where("user_id = ? AND club_id = ?", alice.ID, club.ID).Take(&m).Error)
	require.Equal(t, model.StatusApproved, m.Status)
	require.Equal(t, model.ClubRoleLeader, m.RoleInClub)

	_, err = f.engine.AuditClub(f.db, f.admin, club.ID, model.StatusRejected)
	require.ErrorIs(t, err, governance.ErrAlreadyProcessed)
	_, err = f.engine.AuditClub(f.db, f.admin, club.ID, model.StatusApproved)
	require.ErrorIs(t, err, governance.ErrAlreadyProcessed)
}

func TestAuditClubUpsertsExistingLeaderRow(t *testing.T) {
	f := setup(t)
	alice := test.CreateUser(t, f.db, "alice", model.RoleUser)
	club := test.CreateClub(t, f.db, alice, "Film Club", model.StatusPending)
	test.AddMember(t, f.db, club, alice, model.StatusPending, model.ClubRoleMember)

	_, err := f.engine.AuditClub(f.db, f.admin, club.ID, model.StatusApproved)
	require.NoError(t, err)

	var rows []model.Membership
	require.NoError(t, f.db.Where("club_id = ?", club.ID).Find(&rows).Error)
	require.Len(t, rows, 1)
	require.Equal(t, model.StatusApproved, rows[0].Status)
	require.Equal(t, model.ClubRoleLeader, rows[0].RoleInClub)
}

func TestAuditClubKeepsAdminRole(t *testing.T) {
	f := setup(t)
	root := test.CreateUser(t, f.db, "root", model.RoleAdmin)
	club := test.CreateClub(t, f.db, root, "Admin Club", model.StatusPending)

	_, err := f.engine.AuditClub(f.db, f.admin, club.ID, model.StatusApproved)
	require.NoError(t, err)
	require.Equal(t, model.RoleAdmin, test.Reload(t, f.db, root).Role)
	require.Empty(t, f.roles.invalidated)
}

func TestAuditClubReject(t *testing.T) {
	f := setup(t)
	alice := test.CreateUser(t, f.db, "alice", model.RoleUser)
	club, err := f.engine.ApplyClub(f.db, actor(alice), applyInput("Go Club"))
	require.NoError(t, err)

	// 文件删除失败不影响审批结果
	f.assets.err = errBoom
	rejected, err := f.engine.AuditClub(f.db, f.admin, club.ID, model.StatusRejected)
	require.NoError(t, err)
	require.Equal(t, model.StatusRejected, rejected.Status)
	require.ElementsMatch(t, []string{club.CoverImage, club.Materials}, f.assets.deleted)
	require.Equal(t, model.RoleUser, test.Reload(t, f.db, alice).Role)

	var count int64
	require.NoError(t, f.db.Model(&model.Membership{}).Where("club_id = ?", club.ID).Count(&count).Error)
	require.Zero(t, count)
}

func TestAuditClubPreconditions(t *testing.T) {
	f := setup(t)
	alice := test.CreateUser(t, f.db, "alice", model.RoleUser)
	club := test.CreateClub(t, f.db, alice, "Go Club", model.StatusPending)

	_, err := f.engine.AuditClub(f.db, actor(alice), club.ID, model.StatusApproved)
	require.ErrorIs(t, err, governance.ErrAdminOnly)
	_, err = f.engine.AuditClub(f.db, f.admin, club.ID, model.StatusPending)
	require.ErrorIs(t, err, governance.ErrInvalidDecision)
	_, err = f.engine.AuditClub(f.db, f.admin, 999, model.StatusApproved)
	require.ErrorIs(t, err, governance.ErrClubNotFound)
}

func TestPendingClubsPagination(t *testing.T) {
	f := setup(t)
	alice := test.CreateUser(t, f.db, "alice", model.RoleUser)
	var ids []uint
	for i := 1; i <= 15; i++ {
		ids = append(ids, test.CreateClub(t, f.db, alice, fmt.Sprintf("club-%02d", i), model.StatusPending).ID)
	}
	test.CreateClub(t, f.db, alice, "approved", model.StatusApproved)

	page, err := f.engine.PendingClubs(f.db, governance.Page{Number: 1, Size: 10})
	require.NoError(t, err)
	require.EqualValues(t, 15, page.Total)
	require.Equal(t, 1, page.Page)
	require.Equal(t, 10, page.PageSize)
	require.Len(t, page.List, 10)
	for i, c := range page.List {
		require.Equal(t, ids[14-i], c.ID)
		require.NotNil(t, c.Leader)
		require.Equal(t, alice.ID, c.Leader.ID)
	}

	page, err = f.engine.PendingClubs(f.db, governance.Page{Number: 2, Size: 10})
	require.NoError(t, err)
	require.Len(t, page.List, 5)
	require.Equal(t, ids[4], page.List[0].ID)

	page, err = f.engine.PendingClubs(f.db, governance.Page{Number: 3, Size: 10})
	require.NoError(t, err)
	require.EqualValues(t, 15, page.Total)
	require.Empty(t, page.List)
	require.NotNil(t, page.List)

	page, err = f.engine.PendingClubs(f.db, governance.Page{})
	require.NoError(t, err)
	require.Equal(t, governance.DefaultPage, page.Page)
	require.Equal(t, governance.DefaultPageSize, page.PageSize)
}

func TestAllClubsSearch(t *testing.T) {
	f := setup(t)
	alice := test.CreateUser(t, f.db, "alice", model.RoleUser)
	bob := test.CreateUser(t, f.db, "bob", model.RoleUser)
	require.NoError(t, f.db.Model(&bob).Update("real_name", "Bob Builder").Error)

	test.CreateClub(t, f.db, alice, "Chess Club", model.StatusApproved)
	test.CreateClub(t, f.db, bob, "Robotics", model.StatusApproved)
	test.CreateClub(t, f.db, alice, "Rejected Chess", model.StatusRejected)
	test.CreateClub(t, f.db, bob, "Pending Chess", model.StatusPending)
	test.CreateClub(t, f.db, alice, "100% Fun", model.StatusApproved)

	all, err := f.engine.AllClubs(f.db, governance.Page{Number: 1, Size: 10}, "")
	require.NoError(t, err)
	require.EqualValues(t, 4, all.Total)

	chess, err := f.engine.AllClubs(f.db, governance.Page{Number: 1, Size: 10}, "Chess")
	require.NoError(t, err)
	require.EqualValues(t, 2, chess.Total)

	byLeader, err := f.engine.AllClubs(f.db, governance.Page{Number: 1, Size: 10}, "Builder")
	require.NoError(t, err)
	require.EqualValues(t, 1, byLeader.Total)
	require.Equal(t, "Robotics", byLeader.List[0].Name)

	percent, err := f.engine.AllClubs(f.db, governance.Page{Number: 1, Size: 10}, "0%")
	require.NoError(t, err)
	require.EqualValues(t, 1, percent.Total)
}

func TestGetClub(t *testing.T) {
	f := setup(t)
	alice := test.CreateUser(t, f.db, "alice", model.RoleUser)
	bob := test.CreateUser(t, f.db, "bob", model.RoleUser)
	club := test.CreateClub(t, f.db, alice, "Go Club", model.StatusApproved)
	test.AddMember(t, f.db, club, bob, model.StatusPending, model.ClubRoleMember)
	pending := test.CreateClub(t, f.db, alice, "Pending", model.StatusPending)

	detail, err := f.engine.GetClub(f.db, actor(bob), club.ID)
	require.NoError(t, err)
	require.EqualValues(t, 1, detail.MemberCount)
	require.False(t, detail.IsMember)
	require.Equal(t, model.StatusPending, detail.MembershipStatus)
	require.NotNil(t, detail.Leader)

	detail, err = f.engine.GetClub(f.db, actor(alice), club.ID)
	require.NoError(t, err)
	require.True(t, detail.IsMember)
	require.Equal(t, model.ClubRoleLeader, detail.RoleInClub)

	_, err = f.engine.GetClub(f.db, actor(bob), pending.ID)
	require.ErrorIs(t, err, governance.ErrClubNotFound)
	_, err = f.engine.GetClub(f.db, actor(alice), pending.ID)
	require.NoError(t, err)
	_, err = f.engine.GetClub(f.db, f.admin, pending.ID)
	require.NoError(t, err)
}

func TestLedClubs(t *testing.T) {
	f := setup(t)
	alice := test.CreateUser(t, f.db, "alice", model.RoleUser)
	bob := test.CreateUser(t, f.db, "bob", model.RoleUser)
	test.CreateClub(t, f.db, alice, "A1", model.StatusApproved)
	test.CreateClub(t, f.db, alice, "A2", model.StatusPending)
	test.CreateClub(t, f.db, bob, "B1", model.StatusApproved)

	clubs, err := f.engine.LedClubs(f.db, alice.ID)
	require.NoError(t, err)
	require.Len(t, clubs, 2)
	require.Equal(t, "A2", clubs[0].Name)
}

func TestUpdateClub(t *testing.T) {
	f := setup(t)
	alice := test.CreateUser(t, f.db, "alice", model.RoleUser)
	bob := test.CreateUser(t, f.db, "bob", model.RoleUser)
	club, err := f.engine.ApplyClub(f.db, actor(alice), applyInput("Go Club"))
	require.NoError(t, err)
	test.CreateClub(t, f.db, bob, "Rust Club", model.StatusApproved)

	name, cover := "Gopher Club", "/uploads/clubs/covers/new.png"
	updated, err := f.engine.UpdateClub(f.db, actor(alice), club.ID, governance.UpdateClubInput{Name: &name, CoverImage: &cover})
	require.NoError(t, err)
	require.Equal(t, name, updated.Name)
	require.Equal(t, cover, updated.CoverImage)
	require.Equal(t, []string{club.CoverImage}, f.assets.deleted)

	taken := "Rust Club"
	_, err = f.engine.UpdateClub(f.db, actor(alice), club.ID, governance.UpdateClubInput{Name: &taken})
	require.ErrorIs(t, err, governance.ErrDuplicateName)

	_, err = f.engine.UpdateClub(f.db, actor(bob), club.ID, governance.UpdateClubInput{Name: &name})
	require.ErrorIs(t, err, governance.ErrNotClubLeader)

	// 保持原名不算重名
	_, err = f.engine.UpdateClub(f.db, f.admin, club.ID, governance.UpdateClubInput{Name: &name})
	require.NoError(t, err)
}

func TestClubAssetsMustMatchCategory(t *testing.T) {
	f := setup(t)
	alice := test.CreateUser(t, f.db, "alice", model.RoleUser)
	bob := test.CreateUser(t, f.db, "bob", model.RoleLeader)
	other := test.CreateClub(t, f.db, bob, "Rust Club", model.StatusApproved)
	other.CoverImage = "/uploads/clubs/covers/rust.png"
	require.NoError(t, f.db.Save(&other).Error)

	for _, in := range []governance.ApplyClubInput{
		{CoverImage: other.CoverImage},
		{Materials: "/uploads/clubs/covers/m.png"},
		{CoverImage: "/uploads/activities/covers/a.png"},
		{CoverImage: "/uploads/clubs/covers/../../secret.png"},
		{CoverImage: "https://elsewhere.example.com/clubs/covers/a.png"},
	} {
		in.Name, in.Type, in.Description = "Go Club", model.ClubArts, "d"
		_, err := f.engine.ApplyClub(f.db, actor(alice), in)
		require.ErrorIs(t, err, governance.ErrInvalidAsset, in.CoverImage)
	}
	require.Empty(t, f.assets.deleted)

	club, err := f.engine.ApplyClub(f.db, actor(alice), applyInput("Go Club"))
	require.NoError(t, err)
	materials := "/uploads/clubs/covers/rust.png"
	_, err = f.engine.UpdateClub(f.db, actor(alice), club.ID, governance.UpdateClubInput{Materials: &materials})
	require.ErrorIs(t, err, governance.ErrInvalidAsset)

	// 清空封面是允许的
	empty := ""
	_, err = f.engine.UpdateClub(f.db, actor(alice), club.ID, governance.UpdateClubInput{CoverImage: &empty})
	require.NoError(t, err)
	require.Equal(t, []string{club.CoverImage}, f.assets.deleted)
}
