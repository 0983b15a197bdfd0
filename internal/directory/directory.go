package directory

// UserStatus is the lifecycle state of a platform user. The values are the
// exact strings carried by the upstream documents.
type UserStatus string

const (
	StatusActive      UserStatus = "Active"
	StatusInactive    UserStatus = "Inactive"
	StatusPending     UserStatus = "Pending"
	StatusBlacklisted UserStatus = "Blacklisted"
)

// ValidStatus reports whether s is one of the known lifecycle states.
func ValidStatus(s UserStatus) bool {
	switch s {
	case StatusActive, StatusInactive, StatusPending, StatusBlacklisted:
		return true
	}
	return false
}

// UserSummary is the list-view record. JSON tags match the upstream user
// list document verbatim, including the capitalised Savings/Loan keys.
type UserSummary struct {
	ID           int64      `json:"id"`
	Organization string     `json:"organization"`
	Username     string     `json:"username"`
	Email        string     `json:"email"`
	PhoneNumber  string     `json:"phoneNumber"`
	DateJoined   string     `json:"dateJoined"`
	Status       UserStatus `json:"status"`
	HasSavings   bool       `json:"Savings"`
	HasLoan      bool       `json:"Loan"`
}

// UserDetail is the full detail-view record. It is the only locally mutable
// entity: a status transition rewrites the cached snapshot wholesale.
type UserDetail struct {
	ID           int64      `json:"id"`
	Organization string     `json:"organization"`
	FirstName    string     `json:"firstName"`
	LastName     string     `json:"lastName"`
	FullName     string     `json:"fullName"`
	Avatar       string     `json:"avatar,omitempty"`
	Status       UserStatus `json:"status"`

	AccountNumber string `json:"accountNumber"`
	Tier          int    `json:"tier"`
	Balance       string `json:"balance"`
	Bank          string `json:"bank"`

	PhoneNumber        string `json:"phoneNumber"`
	Email              string `json:"email"`
	BVN                int64  `json:"bvn"`
	Gender             string `json:"gender"`
	MaritalStatus      string `json:"maritalStatus"`
	Children           string `json:"children"`
	TypeOfResidence    string `json:"typeOfResidence"`
	EducationLevel     string `json:"educationLevel"`
	EmploymentStatus   string `json:"employmentStatus"`
	EmploymentSector   string `json:"employmentSector"`
	EmploymentDuration string `json:"employmentDuration"`
	OfficeEmail        string `json:"officeEmail"`
	MonthlyIncome      string `json:"monthlyIncome"`
	LoanRepayment      string `json:"loanRepayment"`

	Twitter   string `json:"twitter"`
	Facebook  string `json:"facebook"`
	Instagram string `json:"instagram"`

	GuarantorName         string `json:"guarantorName"`
	GuarantorPhone        string `json:"guarantorPhone"`
	GuarantorEmail        string `json:"guarantorEmail"`
	GuarantorRelationship string `json:"guarantorRelationship"`
}

// userListDocument and userDetailDocument are the upstream response shapes.
type userListDocument struct {
	Status bool          `json:"status"`
	Data   []UserSummary `json:"data"`
}

type userDetailDocument struct {
	Status bool         `json:"status"`
	Data   []UserDetail `json:"data"`
}

// Stats summarise the directory for the dashboard cards.
type Stats struct {
	TotalUsers       int `json:"total_users"`
	ActiveUsers      int `json:"active_users"`
	UsersWithLoans   int `json:"users_with_loans"`
	UsersWithSavings int `json:"users_with_savings"`
}
