package model

// 用户角色
const (
	RoleTechnician = "technician"
	RoleSupervisor = "supervisor"
	RoleQuality    = "quality"
	RoleAdmin      = "admin"
)

// User 用户表 — 对应 users
// 认证与角色路由由外部协作方负责，流水线只消费 user_id + role
type User struct {
	UserID       string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"user_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	Username     string `gorm:"type:varchar(50);not null;uniqueIndex"          json:"username"`
	Email        string `gorm:"type:varchar(255);not null"                     json:"email"`
	PasswordHash string `gorm:"type:varchar(255);not null"                     json:"-"`
	Role         string `gorm:"type:varchar(20);not null;default:'technician'" json:"role"`
	IsActive     bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel
}

// TableName 指定表名
func (User) TableName() string { return "users" }

// Technician 技术员表 — 对应 technicians
// 与 users 1:1 关联；任务提交时由操作者身份解析得到
type Technician struct {
	TechnicianID string `gorm:"type:uuid;primaryKey;default:gen_random_uuid()" json:"technician_id"`
	UserID       string `gorm:"type:uuid;not null"                             json:"user_id"`
	Name         string `gorm:"type:varchar(100);not null"                     json:"name"`
	EmployeeNo   string `gorm:"type:varchar(50);not null;uniqueIndex"          json:"employee_no"`
	Specialty    string `gorm:"type:varchar(100)"                              json:"specialty,omitempty"`
	IsActive     bool   `gorm:"not null;default:true"                          json:"is_active"`
	BaseModel

	// 关联
	User *User `gorm:"foreignKey:UserID;references:UserID" json:"user,omitempty"`
}

// TableName 指定表名
func (Technician) TableName() string { return "technicians" }
