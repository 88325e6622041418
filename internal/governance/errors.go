package governance

import (
	"github.com/go-sql-driver/mysql"
	"github.com/pkg/errors"
	"gorm.io/gorm"
)

// Kind 错误分类，由接口层映射为响应码
type Kind int

const (
	KindValidation Kind = iota + 1
	KindNotFound
	KindConflict
	KindForbidden
)

// Error 工作流中可预期的业务错误，消息可直接展示给用户
type Error struct {
	kind Kind
	msg  string
}

func newError(kind Kind, msg string) *Error {
	return &Error{kind: kind, msg: msg}
}

func (e *Error) Error() string { return e.msg }

func (e *Error) Kind() Kind { return e.kind }

var (
	ErrInvalidInput      = newError(KindValidation, "请填写完整信息")
	ErrInvalidClubType   = newError(KindValidation, "社团类型无效")
	ErrInvalidDecision   = newError(KindValidation, "审批状态无效")
	ErrInvalidRole       = newError(KindValidation, "角色无效")
	ErrInvalidWindow     = newError(KindValidation, "活动结束时间必须晚于开始时间")
	ErrClubNotOpen       = newError(KindValidation, "社团尚未通过审核")
	ErrLeaderCannotLeave = newError(KindValidation, "社团负责人不能退出社团")
	ErrInvalidAsset      = newError(KindValidation, "上传文件地址无效")

	ErrClubNotFound        = newError(KindNotFound, "社团不存在")
	ErrUserNotFound        = newError(KindNotFound, "用户不存在")
	ErrActivityNotFound    = newError(KindNotFound, "活动不存在")
	ErrApplicationNotFound = newError(KindNotFound, "入社申请不存在")
	ErrNotAMember          = newError(KindNotFound, "不是该社团成员")

	ErrDuplicateName     = newError(KindConflict, "社团名称已存在")
	ErrDuplicateUsername = newError(KindConflict, "用户名已存在")
	ErrAlreadyMember     = newError(KindConflict, "已是该社团成员或已提交申请")
	ErrAlreadyProcessed  = newError(KindConflict, "该申请已处理")

	ErrNotClubLeader = newError(KindForbidden, "只有社团负责人可以执行该操作")
	ErrAdminOnly     = newError(KindForbidden, "只有管理员可以执行该操作")
)

// notFound 把记录不存在翻译为对应的业务错误，其余错误附带堆栈返回
func notFound(err error, target *Error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return target
	}
	return errors.WithStack(err)
}

// isDuplicateKey 唯一键冲突（并发重复插入）
func isDuplicateKey(err error) bool {
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return true
	}
	var me *mysql.MySQLError
	return errors.As(err, &me) && me.Number == 1062
}
