package core

// DomainError 是领域层的统一错误类型。
//
// 设计原则：
//   - 所有领域层错误都使用此类型
//   - 提供错误代码（Code）和消息（Message）
//   - 支持错误检查函数（IsXXX）
type DomainError struct {
	Code    string // 错误代码（如 "NOT_FOUND", "RATE_LIMITED"）
	Message string // 错误消息
	Module  string // 模块名称（如 "store", "catalog", "textgen"）
}

func (e *DomainError) Error() string {
	return e.Message
}

// GetDomainError 获取 DomainError，如果不是则返回 nil。
func GetDomainError(err error) *DomainError {
	if err == nil {
		return nil
	}
	if domainErr, ok := err.(*DomainError); ok {
		return domainErr
	}
	return nil
}

// NewDomainError 创建新的领域错误。
func NewDomainError(module, code, message string) *DomainError {
	return &DomainError{
		Module:  module,
		Code:    code,
		Message: message,
	}
}

// 错误代码常量
const (
	ErrorCodeNotFound        = "NOT_FOUND"         // 资源不存在
	ErrorCodeNotSupported    = "NOT_SUPPORTED"     // 操作不支持
	ErrorCodeUnavailable     = "UNAVAILABLE"       // 服务不可用
	ErrorCodeInvalidInput    = "INVALID_INPUT"     // 输入无效
	ErrorCodeInvalidStrategy = "INVALID_STRATEGY"  // 推荐策略无效
	ErrorCodeRateLimited     = "RATE_LIMITED"      // 触发限流
	ErrorCodeInternalError   = "INTERNAL_ERROR"    // 内部错误
)

// 模块名称常量
const (
	ModuleStore   = "store"   // 存储模块
	ModuleCatalog = "catalog" // 商品目录模块
	ModuleEngine  = "engine"  // 推荐引擎模块
	ModuleTextGen = "textgen" // 文本生成模块
	ModuleFeature = "feature" // 特征模块
)

func hasCode(err error, code string) bool {
	if domainErr := GetDomainError(err); domainErr != nil {
		return domainErr.Code == code
	}
	return false
}

// IsNotFound 检查错误是否为 NOT_FOUND。
func IsNotFound(err error) bool {
	return hasCode(err, ErrorCodeNotFound)
}

// IsNotSupported 检查错误是否为 NOT_SUPPORTED。
func IsNotSupported(err error) bool {
	return hasCode(err, ErrorCodeNotSupported)
}

// IsUnavailable 检查错误是否为 UNAVAILABLE。
func IsUnavailable(err error) bool {
	return hasCode(err, ErrorCodeUnavailable)
}

// IsInvalidStrategy 检查错误是否为 INVALID_STRATEGY。
func IsInvalidStrategy(err error) bool {
	return hasCode(err, ErrorCodeInvalidStrategy)
}

// IsRateLimited 检查错误是否为 RATE_LIMITED。
func IsRateLimited(err error) bool {
	return hasCode(err, ErrorCodeRateLimited)
}
