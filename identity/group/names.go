package group

var (
	Administrators = "Administrators"
	Users          = "Users"
)
