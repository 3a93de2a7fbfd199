package accounts

import (
	"context"
	"errors"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/redhat-data-and-ai/accountsync/pkg/common/structs"
)

func (suite *ManagerTestSuite) TestAdd_CachesWhenLoaded() {
	assertions := assert.New(suite.T())
	suite.seed("bob")

	account := &structs.Account{
		UID:        "alice",
		GivenName:  "Alice",
		FamilyName: "Liddell",
		MailAlias:  "a.liddell@example.com",
		IsStaff:    true,
	}

	var created *structs.DirectoryUser
	gomock.InOrder(
		suite.client.EXPECT().InsertAccount(gomock.Any(), gomock.Any()).
			DoAndReturn(func(_ context.Context, user *structs.DirectoryUser) error {
				created = user
				return nil
			}),
		suite.client.EXPECT().InsertAlias(gomock.Any(), "alice@example.com", "a.liddell@example.com").
			Return(nil),
	)

	err := suite.manager.Add(suite.ctx, account, "s3cret")
	assertions.NoError(err)

	suite.Require().NotNil(created)
	assertions.Equal("alice@example.com", created.PrimaryEmail)
	assertions.Equal("Alice", created.Name.GivenName)
	assertions.Equal("Liddell", created.Name.FamilyName)
	assertions.Equal("s3cret", created.Password)
	assertions.Equal("/personeel", created.OrgUnitPath)
	assertions.False(created.ChangePasswordAtNextLogin)

	cached, err := suite.manager.Load(suite.ctx, "ALICE@example.com")
	assertions.NoError(err)
	assertions.Equal("alice@example.com", cached.Mail)
	assertions.Equal("a.liddell@example.com", cached.MailAlias)
	assertions.Equal(2, suite.count())
}

func (suite *ManagerTestSuite) TestAdd_WithoutAliasSkipsAliasInsert() {
	suite.seed("bob")

	suite.client.EXPECT().InsertAccount(gomock.Any(), gomock.Any()).
		DoAndReturn(func(_ context.Context, user *structs.DirectoryUser) error {
			assert.Empty(suite.T(), user.OrgUnitPath)
			return nil
		})

	err := suite.manager.Add(suite.ctx, &structs.Account{UID: "carol"}, "pw")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 2, suite.count())
}

func (suite *ManagerTestSuite) TestAdd_EmptyCacheIsNotPopulated() {
	suite.client.EXPECT().InsertAccount(gomock.Any(), gomock.Any()).Return(nil)

	err := suite.manager.Add(suite.ctx, &structs.Account{UID: "alice"}, "pw")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, suite.count())
}

func (suite *ManagerTestSuite) TestAdd_CreateFailure() {
	assertions := assert.New(suite.T())
	suite.seed("bob")
	remoteErr := errors.New("entity already exists")

	suite.client.EXPECT().InsertAccount(gomock.Any(), gomock.Any()).Return(remoteErr)
	suite.client.EXPECT().InsertAlias(gomock.Any(), gomock.Any(), gomock.Any()).Times(0)

	err := suite.manager.Add(suite.ctx, &structs.Account{UID: "alice", MailAlias: "al@example.com"}, "pw")
	assertions.ErrorIs(err, remoteErr)
	assertions.Equal(KindRemote, KindOf(err))
	assertions.False(IsPartial(err))
	assertions.Contains(err.Error(), "add account")
	assertions.Equal(1, suite.count())
}

func (suite *ManagerTestSuite) TestAdd_AliasFailureIsPartial() {
	assertions := assert.New(suite.T())
	suite.seed("bob")
	remoteErr := errors.New("alias taken")

	suite.client.EXPECT().InsertAccount(gomock.Any(), gomock.Any()).Return(nil)
	suite.client.EXPECT().InsertAlias(gomock.Any(), "alice@example.com", "al@example.com").Return(remoteErr)

	err := suite.manager.Add(suite.ctx, &structs.Account{UID: "alice", MailAlias: "al@example.com"}, "pw")
	assertions.ErrorIs(err, remoteErr)
	assertions.True(IsPartial(err))
	assertions.Contains(err.Error(), "add alias")

	_, err = suite.manager.Load(suite.ctx, "alice@example.com")
	assertions.True(IsNotFound(err))
}

func (suite *ManagerTestSuite) TestAdd_InvalidAccount() {
	for _, account := range []*structs.Account{nil, {UID: ""}, {UID: "a@b"}} {
		err := suite.manager.Add(suite.ctx, account, "pw")
		assert.Equal(suite.T(), KindInvalid, KindOf(err))
		assert.ErrorIs(suite.T(), err, structs.ErrInvalidAccount)
	}
}

func (suite *ManagerTestSuite) TestAdd_MailOfAnotherUID() {
	suite.seed("bob")

	err := suite.manager.Add(suite.ctx, &structs.Account{UID: "jdoe", Mail: "john@example.com"}, "pw")
	assert.Equal(suite.T(), KindInvalid, KindOf(err))
	assert.ErrorIs(suite.T(), err, structs.ErrInvalidAccount)

	cached, err := suite.store.Account.Get(suite.ctx, "jdoe")
	suite.Require().NoError(err)
	assert.Nil(suite.T(), cached)
}

func (suite *ManagerTestSuite) TestAdd_MailMatchingUID() {
	suite.seed("bob")
	suite.client.EXPECT().InsertAccount(gomock.Any(), gomock.Any()).Return(nil)
	suite.client.EXPECT().DeleteAccount(gomock.Any(), "JDoe@other.org").Return(nil)

	suite.Require().NoError(suite.manager.Add(suite.ctx, &structs.Account{UID: "jdoe", Mail: "JDoe@other.org"}, "pw"))
	assert.Equal(suite.T(), 2, suite.count())

	suite.Require().NoError(suite.manager.Delete(suite.ctx, "JDoe@other.org"))
	cached, err := suite.store.Account.Get(suite.ctx, "jdoe")
	suite.Require().NoError(err)
	assert.Nil(suite.T(), cached)
}

func (suite *ManagerTestSuite) TestAdd_EmptyPassword() {
	err := suite.manager.Add(suite.ctx, &structs.Account{UID: "alice"}, "")
	assert.Equal(suite.T(), KindInvalid, KindOf(err))
	assert.ErrorIs(suite.T(), err, errEmptyPassword)
}

func (suite *ManagerTestSuite) TestAddThenDelete() {
	assertions := assert.New(suite.T())
	suite.seed("bob")

	suite.client.EXPECT().InsertAccount(gomock.Any(), gomock.Any()).Return(nil)
	suite.client.EXPECT().DeleteAccount(gomock.Any(), "alice@example.com").Return(nil)

	assertions.NoError(suite.manager.Add(suite.ctx, &structs.Account{UID: "alice"}, "pw"))
	assertions.Equal(2, suite.count())

	assertions.NoError(suite.manager.Delete(suite.ctx, "alice@example.com"))
	assertions.Equal(1, suite.count())

	_, err := suite.manager.Load(suite.ctx, "alice@example.com")
	assertions.True(IsNotFound(err))
}

func (suite *ManagerTestSuite) TestDelete_RemoteFailureKeepsCache() {
	suite.seed("alice")
	suite.client.EXPECT().DeleteAccount(gomock.Any(), "alice@example.com").Return(errors.New("forbidden"))

	err := suite.manager.Delete(suite.ctx, "alice@example.com")
	assert.Equal(suite.T(), KindRemote, KindOf(err))
	assert.Equal(suite.T(), 1, suite.count())
}

func (suite *ManagerTestSuite) TestDelete_NotCached() {
	suite.seed("bob")
	suite.client.EXPECT().DeleteAccount(gomock.Any(), "alice@example.com").Return(nil)

	assert.NoError(suite.T(), suite.manager.Delete(suite.ctx, "alice@example.com"))
	assert.Equal(suite.T(), 1, suite.count())
}

func (suite *ManagerTestSuite) TestDelete_EmptyMail() {
	err := suite.manager.Delete(suite.ctx, "  ")
	assert.Equal(suite.T(), KindInvalid, KindOf(err))
}

func (suite *ManagerTestSuite) TestChangePassword() {
	suite.seed("alice")

	suite.client.EXPECT().UpdateAccount(gomock.Any(), "alice@example.com", &structs.DirectoryUser{Password: "n3w"}).
		Return(nil)

	err := suite.manager.ChangePassword(suite.ctx, &structs.Account{UID: "alice"}, "n3w")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, suite.count())
}

func (suite *ManagerTestSuite) TestChangePassword_Failures() {
	assertions := assert.New(suite.T())

	err := suite.manager.ChangePassword(suite.ctx, &structs.Account{UID: "alice"}, "")
	assertions.Equal(KindInvalid, KindOf(err))

	suite.client.EXPECT().UpdateAccount(gomock.Any(), "alice@example.com", gomock.Any()).
		Return(errors.New("backend error"))

	err = suite.manager.ChangePassword(suite.ctx, &structs.Account{UID: "alice"}, "n3w")
	assertions.Equal(KindRemote, KindOf(err))
	assertions.Contains(err.Error(), "change password")
}
