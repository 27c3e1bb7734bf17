package authz

// Role はシステム上のロールを表す閉じた列挙型
type Role string

const (
	RoleAdmin     Role = "ADMIN"
	RoleOrganizer Role = "SORTEADOR"
	RoleUser      Role = "USER"
)

// Resource は権限チェックの対象リソース
type Resource string

const (
	ResourceEvent       Resource = "event"
	ResourceParticipant Resource = "participant"
	ResourceTicket      Resource = "ticket"
)

// Action はリソースに対する操作
type Action string

const (
	ActionCreate   Action = "create"
	ActionRead     Action = "read"
	ActionUpdate   Action = "update"
	ActionDelete   Action = "delete"
	ActionValidate Action = "validate"
)

// Identity は外部認証基盤で認証済みの利用者を表す
// コアは認証自体を行わず、この値を信頼して権限判定のみを行う
type Identity struct {
	ID   string
	Role Role
}

// permissions はロールごとの許可テーブル
var permissions = map[Resource]map[Action][]Role{
	ResourceEvent: {
		ActionCreate: {RoleAdmin, RoleOrganizer},
		ActionRead:   {RoleAdmin, RoleOrganizer, RoleUser},
		ActionUpdate: {RoleAdmin, RoleOrganizer},
		ActionDelete: {RoleAdmin},
	},
	ResourceParticipant: {
		ActionCreate: {RoleAdmin, RoleOrganizer, RoleUser},
		ActionRead:   {RoleAdmin, RoleOrganizer},
		ActionUpdate: {RoleAdmin, RoleOrganizer},
		ActionDelete: {RoleAdmin},
	},
	ResourceTicket: {
		ActionCreate:   {RoleAdmin, RoleOrganizer},
		ActionRead:     {RoleAdmin, RoleOrganizer, RoleUser},
		ActionUpdate:   {RoleAdmin, RoleOrganizer},
		ActionDelete:   {RoleAdmin},
		ActionValidate: {RoleAdmin, RoleOrganizer},
	},
}

// ParseRole は文字列をRoleに変換する。未知の値はRoleUserとして扱う
func ParseRole(s string) Role {
	switch Role(s) {
	case RoleAdmin:
		return RoleAdmin
	case RoleOrganizer:
		return RoleOrganizer
	default:
		return RoleUser
	}
}

// Can はロールがリソースに対する操作を許可されているかを返す
func Can(role Role, resource Resource, action Action) bool {
	actions, ok := permissions[resource]
	if !ok {
		return false
	}
	for _, r := range actions[action] {
		if r == role {
			return true
		}
	}
	return false
}
