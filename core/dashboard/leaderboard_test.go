package dashboard

import (
	"context"
	"testing"

	"github.com/pkg/errors"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/somahub/portal/core/lms"
)

func TestService_Leaderboard(t *testing.T) {
	coursesByUser := map[int]string{
		1: `[{"id":1,"progress":100},{"id":2,"progress":100},{"id":3,"progress":50}]`,
		2: `[{"id":1,"progress":100}]`,
		3: `[]`,
	}

	stub := &stubCaller{respond: func(ws string, params lms.Params) (string, error) {
		switch ws {
		case "core_user_get_users":
			return `{"users":[
				{"id":1,"username":"ann","fullname":"Ann Price","lastaccess":` + int64str(daysAgo(10)) + `,"companyid":7},
				{"id":2,"username":"bob","fullname":"Bob Reed","lastaccess":` + int64str(testNow.Unix()) + `},
				{"id":3,"username":"cat","fullname":"Cat Snow"}
			]}`, nil
		case "local_intelliboard_get_users_roles":
			return `{"data":[]}`, nil
		case "block_iomad_company_admin_get_companies":
			return `{"companies":[{"id":7,"name":"Northside Academy"}]}`, nil
		case "core_enrol_get_users_courses":
			return coursesByUser[params["userid"].(int)], nil
		}
		return "", errors.Errorf("unexpected call: %s", ws)
	}}

	entries := newTestService(stub).Leaderboard(context.Background())
	require.Len(t, entries, 3)

	// ann: 2 completed = 200, seen 10 days ago = +40 bonus
	assert.Equal(t, 1, entries[0].Rank)
	assert.Equal(t, "Ann Price", entries[0].Name)
	assert.Equal(t, 2, entries[0].CompletedCourses)
	assert.Equal(t, 240, entries[0].TotalPoints)
	assert.Equal(t, "Northside Academy", entries[0].Department)

	// bob: 1 completed = 100, seen today = +50 bonus
	assert.Equal(t, 2, entries[1].Rank)
	assert.Equal(t, 150, entries[1].TotalPoints)
	assert.Empty(t, entries[1].Department)

	// cat: never seen, nothing completed
	assert.Equal(t, 3, entries[2].Rank)
	assert.Zero(t, entries[2].TotalPoints)
	assert.Zero(t, entries[2].LastActivity)
}

func Test_recencyBonus(t *testing.T) {
	cap := DefaultPolicy().RecencyBonusCap

	assert.Equal(t, 50, recencyBonus(testNow.Unix(), testNow, cap))
	assert.Equal(t, 40, recencyBonus(daysAgo(10), testNow, cap))
	assert.Equal(t, 1, recencyBonus(daysAgo(49), testNow, cap))
	assert.Zero(t, recencyBonus(daysAgo(50), testNow, cap))
	assert.Zero(t, recencyBonus(daysAgo(400), testNow, cap))
	// clock skew: a future last access never exceeds the cap
	assert.Equal(t, 50, recencyBonus(testNow.Unix()+3600, testNow, cap))
}

func Test_rankEntries(t *testing.T) {
	entries := rankEntries([]LeaderboardEntry{
		{ID: 1, TotalPoints: 100},
		{ID: 2, TotalPoints: 300},
		{ID: 3, TotalPoints: 100},
		{ID: 4, TotalPoints: 200},
	})

	ids := make([]int, len(entries))
	ranks := make([]int, len(entries))
	for i, e := range entries {
		ids[i] = e.ID
		ranks[i] = e.Rank
	}

	// stable: the two 100-point entries keep their input order
	assert.Equal(t, []int{2, 4, 1, 3}, ids)
	assert.Equal(t, []int{1, 2, 3, 4}, ranks)
}
