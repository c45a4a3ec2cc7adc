package errors

import (
	"errors"
	"fmt"
)

// Kind 业务错误类别
// 服务层返回带 Kind 的错误，Handler 层据此映射 HTTP 状态码，
// 调用方可通过 KindOf 以编程方式区分冲突 / 存储失败等情形。
type Kind int

const (
	// KindUnknown 未分类错误（通常是未包装的底层错误）
	KindUnknown Kind = iota
	// KindValidation 输入缺失或格式错误
	KindValidation
	// KindAuthorization 操作者缺少所需角色
	KindAuthorization
	// KindConflict 实体不处于请求转换所期望的状态
	KindConflict
	// KindNotFound 引用的实体不存在
	KindNotFound
	// KindStorage 事务/连接级持久化失败
	KindStorage
)

// String 返回类别名称（日志用）
func (k Kind) String() string {
	switch k {
	case KindValidation:
		return "validation"
	case KindAuthorization:
		return "authorization"
	case KindConflict:
		return "conflict"
	case KindNotFound:
		return "not_found"
	case KindStorage:
		return "storage"
	default:
		return "unknown"
	}
}

// Error 携带类别的业务错误
type Error struct {
	Kind Kind
	Msg  string
	Err  error // 可选的底层错误
}

func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Msg, e.Err)
	}
	return e.Msg
}

func (e *Error) Unwrap() error { return e.Err }

// Is 支持 errors.Is 对哨兵错误的比较：同类别且同消息视为相同
func (e *Error) Is(target error) bool {
	var t *Error
	if !errors.As(target, &t) {
		return false
	}
	return e.Kind == t.Kind && e.Msg == t.Msg
}

// ── 构造函数 ──

// Validation 构造输入校验错误
func Validation(msg string) *Error { return &Error{Kind: KindValidation, Msg: msg} }

// Authorization 构造权限错误
func Authorization(msg string) *Error { return &Error{Kind: KindAuthorization, Msg: msg} }

// Conflict 构造状态冲突错误
func Conflict(msg string) *Error { return &Error{Kind: KindConflict, Msg: msg} }

// NotFound 构造未找到错误
func NotFound(msg string) *Error { return &Error{Kind: KindNotFound, Msg: msg} }

// Storage 包装底层持久化错误
func Storage(msg string, err error) *Error { return &Error{Kind: KindStorage, Msg: msg, Err: err} }

// AsError 提取链上的 *Error；不存在时返回 (nil, false)
func AsError(err error) (*Error, bool) {
	var e *Error
	if errors.As(err, &e) {
		return e, true
	}
	return nil, false
}

// KindOf 提取错误类别；非 *Error 返回 KindUnknown
func KindOf(err error) Kind {
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}
