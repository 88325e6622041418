package upload

import (
	"club-management-system/internal/global/pictureBed"
	"club-management-system/internal/global/response"
	"club-management-system/internal/model"
	"club-management-system/test"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
)

func TestPresignNeedsS3(t *testing.T) {
	db := test.Setup(t)
	m := &ModuleUpload{}
	m.Init()
	r := gin.New()
	m.InitRouter(r.Group("/api"))
	alice := test.CreateUser(t, db, "alice", model.RoleUser)
	tok := test.Token(t, alice)

	code, resp := test.DoRequest(t, r, http.MethodPost, "/api/upload/presign", "", nil, nil)
	test.ErrorEqual(t, code, resp, response.ErrTokenInvalid)

	code, resp = test.DoRequest(t, r, http.MethodPost, "/api/upload/presign", tok, pictureBed.PresignReq{
		Category: "elsewhere", Filename: "a.png", ContentType: "image/png",
	}, nil)
	test.ErrorEqual(t, code, resp, response.ErrInvalidRequest)

	code, resp = test.DoRequest(t, r, http.MethodPost, "/api/upload/presign", tok, pictureBed.PresignReq{
		Category: pictureBed.CategoryClubCover, Filename: "a.png", ContentType: "image/png",
	}, nil)
	test.ErrorEqual(t, code, resp, response.ErrStorageDisabled)
}
