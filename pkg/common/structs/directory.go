package structs

// DirectoryUser is a user record as exchanged with a remote directory
// service, independent of the backend driver.
type DirectoryUser struct {
	PrimaryEmail              string             `json:"primaryEmail,omitempty"`
	Name                      *DirectoryUserName `json:"name,omitempty"`
	Aliases                   []string           `json:"aliases,omitempty"`
	OrgUnitPath               string             `json:"orgUnitPath,omitempty"`
	Password                  string             `json:"-"`
	ChangePasswordAtNextLogin bool               `json:"changePasswordAtNextLogin,omitempty"`
}

type DirectoryUserName struct {
	GivenName  string `json:"givenName,omitempty"`
	FamilyName string `json:"familyName,omitempty"`
	FullName   string `json:"fullName,omitempty"`
}

// DirectoryUserPage is one page of a paginated user listing. An empty
// NextPageToken marks the last page.
type DirectoryUserPage struct {
	Users         []*DirectoryUser
	NextPageToken string
}
