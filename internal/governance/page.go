package governance

import (
	"database/sql"
	"strings"

	"github.com/pkg/errors"
	"gorm.io/gorm"
)

const (
	DefaultPage     = 1
	DefaultPageSize = 10
	MaxPageSize     = 100
)

// Page 页码从 1 开始
type Page struct {
	Number int
	Size   int
}

// NewPage 非法值回落到默认值，每页最多 MaxPageSize 条
func NewPage(number, size int) Page {
	if number < 1 {
		number = DefaultPage
	}
	if size < 1 {
		size = DefaultPageSize
	}
	if size > MaxPageSize {
		size = MaxPageSize
	}
	return Page{Number: number, Size: size}
}

func (p Page) Offset() int {
	return (p.Number - 1) * p.Size
}

type PageResult[T any] struct {
	List     []T   `json:"list"`
	Total    int64 `json:"total"`
	Page     int   `json:"page"`
	PageSize int   `json:"pageSize"`
}

// inSnapshot 在同一个读事务里执行，保证 total 与 list 来自同一快照
func inSnapshot(db *gorm.DB, opts *sql.TxOptions, fn func(tx *gorm.DB) error) error {
	if opts == nil {
		return db.Transaction(fn)
	}
	return db.Transaction(fn, opts)
}

// listPage filter 只负责过滤条件（用于计数），decorate 追加排序与预加载
func listPage[T any](db *gorm.DB, opts *sql.TxOptions, p Page, filter, decorate func(*gorm.DB) *gorm.DB) (*PageResult[T], error) {
	p = NewPage(p.Number, p.Size)
	result := &PageResult[T]{List: make([]T, 0), Page: p.Number, PageSize: p.Size}
	err := inSnapshot(db, opts, func(tx *gorm.DB) error {
		if err := filter(tx).Count(&result.Total).Error; err != nil {
			return err
		}
		if result.Total == 0 || p.Offset() >= int(result.Total) {
			return nil
		}
		return decorate(filter(tx)).Offset(p.Offset()).Limit(p.Size).Find(&result.List).Error
	})
	if err != nil {
		return nil, errors.WithStack(err)
	}
	return result, nil
}

// likePattern 转义通配符后两端加 %，配合 likeEscape 使用
func likePattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}

// likeEscape 与 LIKE ... ESCAPE '!' 搭配，MySQL 与 SQLite 都支持
const likeEscape = "ESCAPE '!'"

var likeEscaper = strings.NewReplacer("!", "!!", "%", "!%", "_", "!_")
