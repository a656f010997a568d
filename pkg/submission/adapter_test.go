package submission

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/restynation/buythatworks/pkg/catalog/catalogtest"
	"github.com/restynation/buythatworks/pkg/graph"
	"github.com/restynation/buythatworks/pkg/models"
)

type fakeClient struct {
	created   []models.CreateSetupRequest
	uploads   []Image
	createErr error
}

func (f *fakeClient) CreateSetup(_ context.Context, req models.CreateSetupRequest) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.created = append(f.created, req)
	return "setup-1", nil
}

func (f *fakeClient) UploadImage(_ context.Context, img Image) (string, error) {
	f.uploads = append(f.uploads, img)
	return "https://img/" + img.Name, nil
}

func plainHash(pin string) (string, error) { return "hashed:" + pin, nil }

func TestSubmit(t *testing.T) {
	g, _, _ := twoNodeGraph(t)
	client := &fakeClient{}
	a := NewAdapter(client, WithHasher(plainHash))

	form := validForm()
	form.Image = &Image{Name: "desk.jpg", Data: []byte{1, 2, 3}}
	res, err := a.Submit(context.Background(), g, form)
	require.NoError(t, err)

	assert.Equal(t, "setup-1", res.SetupID)
	require.Len(t, client.created, 1)
	require.Len(t, client.uploads, 1)
	sent := client.created[0].Setup
	assert.Equal(t, "hashed:1234", sent.PasswordHash)
	require.NotNil(t, sent.ImageURL)
	assert.Equal(t, "https://img/desk.jpg", *sent.ImageURL)
}

func TestSubmitDreamSkipsImage(t *testing.T) {
	g, _, _ := twoNodeGraph(t)
	client := &fakeClient{}
	a := NewAdapter(client, WithHasher(plainHash))

	form := validForm()
	form.SetupType = Dream
	form.Image = &Image{Name: "desk.jpg", Data: []byte{1}}
	res, err := a.Submit(context.Background(), g, form)
	require.NoError(t, err)

	assert.Empty(t, client.uploads)
	assert.Nil(t, res.ImageURL)
	assert.False(t, client.created[0].Setup.IsCurrent)
}

func TestSubmitStructuralFailure(t *testing.T) {
	g := graph.New(catalogtest.New())
	_, err := g.SeedComputer(graph.Position{})
	require.NoError(t, err)
	client := &fakeClient{}

	_, err = NewAdapter(client, WithHasher(plainHash)).Submit(context.Background(), g, validForm())
	var serr *graph.StructuralError
	require.ErrorAs(t, err, &serr)
	assert.Contains(t, serr.Violations, "computer must have a product selected")
	assert.Empty(t, client.created)
}

func TestSubmitFormFailureComesFirst(t *testing.T) {
	g := graph.New(catalogtest.New())
	form := validForm()
	form.PIN = ""

	_, err := NewAdapter(&fakeClient{}).Submit(context.Background(), g, form)
	assert.ErrorIs(t, err, ErrValidation)
}

func TestSubmitRejectedLeavesGraph(t *testing.T) {
	g, _, _ := twoNodeGraph(t)
	nodes, edges := g.Nodes(), g.Edges()
	client := &fakeClient{createErr: &RejectedError{Status: 500, Message: "Database error"}}

	_, err := NewAdapter(client, WithHasher(plainHash)).Submit(context.Background(), g, validForm())
	var rejected *RejectedError
	require.ErrorAs(t, err, &rejected)
	assert.Equal(t, nodes, g.Nodes())
	assert.Equal(t, edges, g.Edges())
}

func TestSubmitHashFailure(t *testing.T) {
	g, _, _ := twoNodeGraph(t)
	boom := errors.New("boom")
	_, err := NewAdapter(&fakeClient{}, WithHasher(func(string) (string, error) { return "", boom })).
		Submit(context.Background(), g, validForm())
	assert.ErrorIs(t, err, boom)
}
