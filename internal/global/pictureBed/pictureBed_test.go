package pictureBed

import (
	"bytes"
	"context"
	"errors"
	"io"
	"mime/multipart"
	"net/http/httptest"
	"os"
	"path"
	"path/filepath"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

var pngHeader = []byte("\x89PNG\r\n\x1a\n\x00\x00\x00\rIHDR\x00\x00\x00\x01\x00\x00\x00\x01\x08\x06\x00\x00\x00\x1f\x15\xc4\x89")

// fileHeader 构造一个经过 multipart 解析的文件
func fileHeader(t *testing.T, name string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	w := multipart.NewWriter(&body)
	part, err := w.CreateFormFile("file", name)
	require.NoError(t, err)
	_, err = part.Write(content)
	require.NoError(t, err)
	require.NoError(t, w.Close())

	req := httptest.NewRequest("POST", "/upload", &body)
	req.Header.Set("Content-Type", w.FormDataContentType())
	require.NoError(t, req.ParseMultipartForm(MaxImageSize*2))
	return req.MultipartForm.File["file"][0]
}

func TestLocalSaveAndDelete(t *testing.T) {
	dir := t.TempDir()
	pb := NewPictureBed(dir, "/uploads/")
	ctx := context.Background()

	// 扩展名按内容判断
	url, err := pb.Save(ctx, CategoryClubCover, fileHeader(t, "cover.txt", pngHeader))
	require.NoError(t, err)
	require.True(t, strings.HasPrefix(url, "/uploads/clubs/covers/"))
	require.True(t, strings.HasSuffix(url, ".png"))
	_, err = uuid.Parse(strings.TrimSuffix(path.Base(url), ".png"))
	require.NoError(t, err)
	require.True(t, pb.InCategory(url, CategoryClubCover))
	require.False(t, pb.InCategory(url, CategoryClubMaterials))

	local := filepath.Join(dir, filepath.FromSlash(strings.TrimPrefix(url, "/uploads/")))
	_, err = os.Stat(local)
	require.NoError(t, err)

	require.NoError(t, pb.Delete(ctx, url))
	_, err = os.Stat(local)
	require.True(t, os.IsNotExist(err))

	// 重复删除不报错
	require.NoError(t, pb.Delete(ctx, url))
	require.NoError(t, pb.Delete(ctx, ""))
}

func TestLocalRejects(t *testing.T) {
	pb := NewPictureBed(t.TempDir(), "/uploads")
	ctx := context.Background()

	_, err := pb.Save(ctx, CategoryClubMaterials, fileHeader(t, "a.png", []byte("plain text, not an image")))
	require.ErrorIs(t, err, ErrNotImage)

	big := append(append([]byte{}, pngHeader...), make([]byte, MaxImageSize)...)
	_, err = pb.Save(ctx, CategoryClubCover, fileHeader(t, "big.png", big))
	require.ErrorIs(t, err, ErrTooLarge)

	require.ErrorIs(t, pb.Delete(ctx, "https://elsewhere.example.com/a.png"), ErrForeignURL)
}

func TestLocalDeleteStaysInsideSaveDir(t *testing.T) {
	root := t.TempDir()
	saveDir := filepath.Join(root, "uploads")
	require.NoError(t, os.MkdirAll(saveDir, 0o755))
	outside := filepath.Join(root, "secret.txt")
	require.NoError(t, os.WriteFile(outside, []byte("x"), 0o644))

	pb := NewPictureBed(saveDir, "/uploads")
	require.NoError(t, pb.Delete(context.Background(), "/uploads/../secret.txt"))
	_, err := os.Stat(outside)
	require.NoError(t, err)
}

func TestS3URLs(t *testing.T) {
	s := &S3Store{}
	s.cfg.Bucket = "club"
	s.cfg.Endpoint = "https://s3.example.com/"
	s.cfg.Prefix = "/prod/"
	s.cfg.UsePathStyle = true

	key := s.key(CategoryActivityCover, "a.png")
	require.Equal(t, "prod/activities/covers/a.png", key)
	require.Equal(t, "https://s3.example.com/club/prod/activities/covers/a.png", s.fileURL(key))

	s.cfg.UsePathStyle = false
	s.cfg.BaseURL = "https://cdn.example.com"
	require.Equal(t, "https://cdn.example.com/prod/activities/covers/a.png", s.fileURL(key))

	require.ErrorIs(t, s.Delete(context.Background(), "https://other.example.com/x.png"), ErrForeignURL)

	// 分类判断需要跳过前缀
	url := s.fileURL(s.key(CategoryAvatar, uniqueName(".png")))
	require.True(t, s.InCategory(url, CategoryAvatar))
	require.False(t, s.InCategory(url, CategoryClubCover))
	require.False(t, s.InCategory("https://cdn.example.com/users/avatars/a.png", CategoryAvatar))
}

func TestIsImageType(t *testing.T) {
	require.True(t, IsImageType("image/png"))
	require.False(t, IsImageType("application/pdf"))
}

func TestLocalInCategory(t *testing.T) {
	pb := NewPictureBed(t.TempDir(), "/uploads")

	require.True(t, pb.InCategory("/uploads/users/avatars/a.png", CategoryAvatar))
	require.False(t, pb.InCategory("/uploads/users/avatars/", CategoryAvatar))
	require.False(t, pb.InCategory("/uploads/users/avatars/x/a.png", CategoryAvatar))
	require.False(t, pb.InCategory("/uploads/users/avatars/../../clubs/covers/a.png", CategoryAvatar))
	require.False(t, pb.InCategory("/uploads/clubs/covers/a.png", CategoryAvatar))
	require.False(t, pb.InCategory("https://elsewhere.example.com/uploads/users/avatars/a.png", CategoryAvatar))
	require.False(t, pb.InCategory("", CategoryAvatar))
}

func TestWriteFileRemovesPartial(t *testing.T) {
	name := filepath.Join(t.TempDir(), "partial.png")
	src := io.MultiReader(bytes.NewReader(pngHeader), iotest.ErrReader(errors.New("connection reset")))

	require.Error(t, writeFile(name, src))
	_, err := os.Stat(name)
	require.True(t, os.IsNotExist(err))

	require.NoError(t, writeFile(name, bytes.NewReader(pngHeader)))
	got, err := os.ReadFile(name)
	require.NoError(t, err)
	require.Equal(t, pngHeader, got)
}
