package api

// Amounts are currency units with at most two decimals. Positive balances
// mean the user is owed money.

type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Role        string `json:"role"`
	CreatedAt   int64  `json:"createdAt"`
}

type Member struct {
	UserID      string `json:"userId"`
	DisplayName string `json:"displayName"`
}

type Group struct {
	ID        string   `json:"id"`
	Name      string   `json:"name"`
	CreatedBy string   `json:"createdBy"`
	Members   []Member `json:"members"`
	CreatedAt int64    `json:"createdAt"`
}

type GroupSummary struct {
	Group       Group   `json:"group"`
	MemberCount int     `json:"memberCount"`
	Balance     float64 `json:"balance"`
}

type Split struct {
	UserID string  `json:"userId" validate:"required"`
	Amount float64 `json:"amount" validate:"gt=0"`
}

type Expense struct {
	ID           string  `json:"id"`
	GroupID      string  `json:"groupId"`
	Amount       float64 `json:"amount"`
	PayerID      string  `json:"payerId"`
	Description  string  `json:"description"`
	Splits       []Split `json:"splits"`
	CreatedBy    string  `json:"createdBy"`
	CreatedAt    int64   `json:"createdAt"`
	LastEditedBy string  `json:"lastEditedBy,omitempty"`
	LastEditedAt int64   `json:"lastEditedAt,omitempty"`
}

type Settlement struct {
	ID         string  `json:"id"`
	GroupID    string  `json:"groupId"`
	PayerID    string  `json:"payerId"`
	ReceiverID string  `json:"receiverId"`
	Amount     float64 `json:"amount"`
	Note       string  `json:"note,omitempty"`
	CreatedBy  string  `json:"createdBy"`
	CreatedAt  int64   `json:"createdAt"`
}

type Balance struct {
	UserID      string  `json:"userId"`
	DisplayName string  `json:"displayName"`
	Amount      float64 `json:"amount"`
	// IsMember is false for former members who still appear in the history.
	IsMember bool `json:"isMember"`
}

type SuggestedPayment struct {
	FromUserID string  `json:"fromUserId"`
	FromName   string  `json:"fromName"`
	ToUserID   string  `json:"toUserId"`
	ToName     string  `json:"toName"`
	Amount     float64 `json:"amount"`
}

type NetBalance struct {
	CounterpartyID   string  `json:"counterpartyId"`
	CounterpartyName string  `json:"counterpartyName"`
	GroupID          string  `json:"groupId"`
	GroupName        string  `json:"groupName"`
	Amount           float64 `json:"amount"`
}

type Activity struct {
	ID        string `json:"id"`
	GroupID   string `json:"groupId"`
	GroupName string `json:"groupName"`
	ActorID   string `json:"actorId"`
	ActorName string `json:"actorName"`
	Kind      string `json:"kind"`
	SubjectID string `json:"subjectId,omitempty"`
	Summary   string `json:"summary,omitempty"`
	CreatedAt int64  `json:"createdAt"`
}

// AuthService

type RegisterRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"displayName" validate:"required,max=100"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required"`
	Password string `json:"password" validate:"required"`
}

type AuthResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User User `json:"user"`
}

// UserService

type ListUsersRequest struct {
	// ExcludeGroupID, when set, leaves out the members of that group so the
	// result lists candidates to add.
	ExcludeGroupID string `json:"excludeGroupId"`
}

type ListUsersResponse struct {
	Users []User `json:"users"`
}

type CreateUserRequest struct {
	Email       string `json:"email" validate:"required,email"`
	DisplayName string `json:"displayName" validate:"required,max=100"`
	Password    string `json:"password" validate:"required,min=8,max=72"`
}

type CreateUserResponse struct {
	User User `json:"user"`
}

// GroupService

type CreateGroupRequest struct {
	Name string `json:"name" validate:"required,max=100"`
	// MemberIDs are added alongside the creator, who always joins.
	MemberIDs []string `json:"memberIds" validate:"dive,required"`
}

type CreateGroupResponse struct {
	Group Group `json:"group"`
}

type GetGroupRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type GetGroupResponse struct {
	Group Group `json:"group"`
}

type ListGroupsRequest struct{}

type ListGroupsResponse struct {
	Groups []GroupSummary `json:"groups"`
}

type RenameGroupRequest struct {
	GroupID string `json:"groupId" validate:"required"`
	Name    string `json:"name" validate:"required,max=100"`
}

type RenameGroupResponse struct {
	Group Group `json:"group"`
}

type DeleteGroupRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type DeleteGroupResponse struct{}

type AddMembersRequest struct {
	GroupID string   `json:"groupId" validate:"required"`
	UserIDs []string `json:"userIds" validate:"required,min=1,dive,required"`
}

type AddMembersResponse struct {
	Added int   `json:"added"`
	Group Group `json:"group"`
}

type RemoveMemberRequest struct {
	GroupID string `json:"groupId" validate:"required"`
	UserID  string `json:"userId" validate:"required"`
}

type RemoveMemberResponse struct {
	Group Group `json:"group"`
}

type GetBalancesRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type GetBalancesResponse struct {
	Balances []Balance `json:"balances"`
}

type SuggestSettlementsRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type SuggestSettlementsResponse struct {
	Payments []SuggestedPayment `json:"payments"`
}

// ExpenseService

type CreateExpenseRequest struct {
	GroupID     string  `json:"groupId" validate:"required"`
	Amount      float64 `json:"amount" validate:"gt=0"`
	PayerID     string  `json:"payerId" validate:"required"`
	Description string  `json:"description" validate:"max=200"`
	// Splits are optional; without them the amount is split equally.
	Splits []Split `json:"splits" validate:"dive"`
}

type CreateExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type UpdateExpenseRequest struct {
	ExpenseID   string  `json:"expenseId" validate:"required"`
	Amount      float64 `json:"amount" validate:"gt=0"`
	PayerID     string  `json:"payerId" validate:"required"`
	Description string  `json:"description" validate:"max=200"`
	Splits      []Split `json:"splits" validate:"dive"`
}

type UpdateExpenseResponse struct {
	Expense Expense `json:"expense"`
}

type DeleteExpenseRequest struct {
	ExpenseID string `json:"expenseId" validate:"required"`
}

type DeleteExpenseResponse struct{}

type ListExpensesRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type ListExpensesResponse struct {
	Expenses []Expense `json:"expenses"`
}

type CreateSettlementRequest struct {
	GroupID    string  `json:"groupId" validate:"required"`
	PayerID    string  `json:"payerId" validate:"required"`
	ReceiverID string  `json:"receiverId" validate:"required"`
	Amount     float64 `json:"amount" validate:"gt=0"`
	Note       string  `json:"note" validate:"max=200"`
}

type CreateSettlementResponse struct {
	Settlement Settlement `json:"settlement"`
}

type ListSettlementsRequest struct {
	GroupID string `json:"groupId" validate:"required"`
}

type ListSettlementsResponse struct {
	Settlements []Settlement `json:"settlements"`
}

type DeleteSettlementRequest struct {
	SettlementID string `json:"settlementId" validate:"required"`
}

type DeleteSettlementResponse struct{}

// DashboardService

type GetNetBalancesRequest struct{}

type GetNetBalancesResponse struct {
	Balances []NetBalance `json:"balances"`
}

type GetActivityRequest struct {
	// Limit defaults to 20 when zero.
	Limit int `json:"limit" validate:"gte=0,lte=100"`
}

type GetActivityResponse struct {
	Activity []Activity `json:"activity"`
}
