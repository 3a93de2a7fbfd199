package accounts

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"

	"github.com/golang/mock/gomock"
	"github.com/stretchr/testify/assert"

	"github.com/redhat-data-and-ai/accountsync/pkg/common/structs"
)

func (suite *ManagerTestSuite) TestSnapshot_RoundTrip() {
	assertions := assert.New(suite.T())

	user := directoryUser("bob")
	user.Aliases = []string{"robert@example.com"}
	user.OrgUnitPath = "/personeel"
	p := page("", "alice")
	p.Users = append(p.Users, user)
	suite.client.EXPECT().ListAccounts(gomock.Any(), testDomain, "").Return(p, nil)

	_, err := suite.manager.LoadAll(suite.ctx)
	suite.Require().NoError(err)

	before, err := suite.manager.ToSnapshot(suite.ctx)
	suite.Require().NoError(err)
	suite.Require().Len(before.Accounts, 2)

	var buf bytes.Buffer
	suite.Require().NoError(suite.manager.WriteSnapshot(suite.ctx, &buf))

	suite.Require().NoError(suite.manager.ClearAll(suite.ctx))
	restored, err := suite.manager.FromSnapshot(suite.ctx, &buf)
	assertions.NoError(err)
	assertions.Equal(2, restored)

	after, err := suite.manager.ToSnapshot(suite.ctx)
	suite.Require().NoError(err)
	assertions.Equal(before, after)
	assertions.True(after.Accounts[1].IsStaff)
	assertions.Equal("robert@example.com", after.Accounts[1].MailAlias)
}

func (suite *ManagerTestSuite) TestToSnapshot_Empty() {
	var buf bytes.Buffer
	suite.Require().NoError(suite.manager.WriteSnapshot(suite.ctx, &buf))
	assert.JSONEq(suite.T(), `{"accounts": []}`, buf.String())
}

func (suite *ManagerTestSuite) TestFromSnapshot_ReplacesCache() {
	suite.seed("stale")

	restored, err := suite.manager.FromSnapshot(suite.ctx, strings.NewReader(
		`{"accounts":[{"uid":"alice","mailAlias":"","isStaff":false}]}`))
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, restored)

	_, err = suite.manager.Load(suite.ctx, "stale@example.com")
	assert.True(suite.T(), IsNotFound(err))
}

func (suite *ManagerTestSuite) TestFromSnapshot_KeysAreCaseInsensitive() {
	assertions := assert.New(suite.T())

	restored, err := suite.manager.FromSnapshot(suite.ctx, strings.NewReader(
		`{"accounts":[{"uid":"JDoe","givenName":"Jane","mailAlias":"","isStaff":true}]}`))
	assertions.NoError(err)
	assertions.Equal(1, restored)

	for _, mail := range []string{"jdoe@example.com", "JDOE@example.com", "JDoe"} {
		account, err := suite.manager.Load(suite.ctx, mail)
		assertions.NoError(err, mail)
		assertions.Equal("JDoe", account.UID)
		assertions.Equal("Jane", account.GivenName)
	}

	suite.client.EXPECT().DeleteAccount(gomock.Any(), "jdoe@example.com").Return(nil)
	assertions.NoError(suite.manager.Delete(suite.ctx, "jdoe@example.com"))
	assertions.Equal(0, suite.count())
}

func (suite *ManagerTestSuite) TestFromSnapshot_DuplicateCasingCollapses() {
	restored, err := suite.manager.FromSnapshot(suite.ctx, strings.NewReader(
		`{"accounts":[{"uid":"jdoe","givenName":"Old"},{"uid":"JDOE","givenName":"New"}]}`))
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 1, restored)

	account, err := suite.manager.Load(suite.ctx, "jdoe")
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), "New", account.GivenName)
}

func (suite *ManagerTestSuite) TestFromSnapshot_MalformedDocumentKeepsCache() {
	suite.seed("alice")

	for _, doc := range []string{`not json`, `null`, ` null `, `[{"uid":"bob"}]`, `{"accounts":"bob"}`} {
		restored, err := suite.manager.FromSnapshot(suite.ctx, strings.NewReader(doc))
		assert.Equal(suite.T(), 0, restored)
		assert.Equal(suite.T(), KindInvalid, KindOf(err), doc)
		assert.False(suite.T(), IsPartial(err))
	}
	assert.Equal(suite.T(), 1, suite.count())
}

func (suite *ManagerTestSuite) TestFromSnapshot_SkipsBadRecords() {
	assertions := assert.New(suite.T())

	restored, err := suite.manager.FromSnapshot(suite.ctx, strings.NewReader(
		`{"accounts":[{"uid":"alice"},{"uid":42},{"uid":""},null,{"uid":"bob"}]}`))
	assertions.Equal(2, restored)
	assertions.Equal(KindInvalid, KindOf(err))
	assertions.True(IsPartial(err))
	assertions.ErrorIs(err, structs.ErrInvalidAccount)
	assertions.Contains(err.Error(), "account 1")
	assertions.Equal(2, suite.count())
}

func (suite *ManagerTestSuite) TestFromSnapshot_UIDWithSlashIsClearable() {
	assertions := assert.New(suite.T())

	restored, err := suite.manager.FromSnapshot(suite.ctx, strings.NewReader(
		`{"accounts":[{"uid":"a/b"},{"uid":"c"}]}`))
	assertions.NoError(err)
	assertions.Equal(2, restored)
	assertions.Equal(2, suite.count())

	snapshot, err := suite.manager.ToSnapshot(suite.ctx)
	assertions.NoError(err)
	assertions.Len(snapshot.Accounts, 2)

	assertions.NoError(suite.manager.ClearAll(suite.ctx))
	cached, err := suite.store.Account.Get(suite.ctx, "a/b")
	assertions.NoError(err)
	assertions.Nil(cached)
}

func (suite *ManagerTestSuite) TestFromSnapshot_SkipsMailOfAnotherUID() {
	restored, err := suite.manager.FromSnapshot(suite.ctx, strings.NewReader(
		`{"accounts":[{"uid":"jdoe","mail":"john@example.com"},{"uid":"bob","mail":"Bob@example.com"}]}`))
	assert.Equal(suite.T(), 1, restored)
	assert.True(suite.T(), IsPartial(err))
	assert.ErrorIs(suite.T(), err, structs.ErrInvalidAccount)
}

func (suite *ManagerTestSuite) TestFromSnapshot_MissingAccountsEmptiesCache() {
	suite.seed("alice")

	restored, err := suite.manager.FromSnapshot(suite.ctx, strings.NewReader(`{}`))
	assert.NoError(suite.T(), err)
	assert.Equal(suite.T(), 0, restored)
	assert.Equal(suite.T(), 0, suite.count())
}

func (suite *ManagerTestSuite) TestSnapshotFile() {
	assertions := assert.New(suite.T())
	path := filepath.Join(suite.T().TempDir(), "accounts.json")
	suite.seed("alice", "bob")

	suite.Require().NoError(suite.manager.SaveSnapshotFile(suite.ctx, path))

	data, err := os.ReadFile(path)
	suite.Require().NoError(err)
	var snapshot Snapshot
	suite.Require().NoError(json.Unmarshal(data, &snapshot))
	assertions.Len(snapshot.Accounts, 2)

	entries, err := os.ReadDir(filepath.Dir(path))
	suite.Require().NoError(err)
	assertions.Len(entries, 1)

	suite.Require().NoError(suite.manager.ClearAll(suite.ctx))
	restored, err := suite.manager.RestoreSnapshotFile(suite.ctx, path)
	assertions.NoError(err)
	assertions.Equal(2, restored)
}

func (suite *ManagerTestSuite) TestRestoreSnapshotFile_Missing() {
	_, err := suite.manager.RestoreSnapshotFile(suite.ctx, filepath.Join(suite.T().TempDir(), "missing.json"))
	assert.Equal(suite.T(), KindInvalid, KindOf(err))
}
