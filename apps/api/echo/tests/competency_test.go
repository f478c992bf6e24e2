package tests

import (
	"net/http"
	"testing"

	"github.com/volatiletech/null/v8"

	"github.com/somahub/portal/core/competency"
)

func Test_competencyApi_minePlans(t *testing.T) {
	stubLMS(t, map[string]string{
		"core_competency_list_plans": `[{"id":1,"name":"Pedagogy track","status":1}]`,
		"core_competency_list_plan_competencies": `[
			{"competency":{"id":11,"shortname":"Lesson planning"},"usercompetencyplan":{"proficiency":true,"statusname":"Complete"}}
		]`,
	})

	wantData := marchallObj(t, []competency.Plan{
		{
			ID: 1, Name: "Pedagogy track", Status: competency.StatusDone,
			Competencies: []competency.Competency{
				{ID: 11, ShortName: "Lesson planning", Proficiency: null.BoolFrom(true), Status: "Complete"},
			},
		},
	})

	tt := httpTest{
		method: http.MethodGet, path: "/v1/plans/mine", token: getToken(t, teacherUsr),
		wantCode: http.StatusOK, wantData: wantData,
	}
	req, rec := newAuthRequest(tt.method, tt.path, tt.token)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)
}

func Test_competencyApi_userPlans(t *testing.T) {
	stubLMS(t, map[string]string{
		"core_competency_list_plans": `[]`,
	})

	tests := []httpTest{
		{name: "teacher forbidden", method: http.MethodGet, path: "/v1/users/3/plans", token: getToken(t, teacherUsr),
			wantCode: http.StatusForbidden, wantData: marchallObj(t, httpErr{Error: "permission denied"})},
		{name: "manager ok", method: http.MethodGet, path: "/v1/users/3/plans", token: getToken(t, managerUsr),
			wantCode: http.StatusOK, wantData: []byte(`[]`)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req, rec := newAuthRequest(tt.method, tt.path, tt.token)
			app.ServeHTTP(rec, req)
			checkCodeAndData(t, tt, rec)
		})
	}
}

func Test_competencyApi_planCompetencies(t *testing.T) {
	// unstubbed: the fetch degrades to an empty list
	tt := httpTest{
		method: http.MethodGet, path: "/v1/plans/1/competencies", token: getToken(t, teacherUsr),
		wantCode: http.StatusOK, wantData: []byte(`[]`),
	}
	req, rec := newAuthRequest(tt.method, tt.path, tt.token)
	app.ServeHTTP(rec, req)
	checkCodeAndData(t, tt, rec)
}
