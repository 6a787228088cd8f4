package service

import (
	"context"
	"encoding/json"
	"strings"

	"github.com/noah-isme/accomnote/internal/firebase"
	"github.com/noah-isme/accomnote/internal/store"
)

// fakeDatabase implements firebase.Database over a nested in-memory tree so
// reads at any depth behave like the real hierarchical store.
type fakeDatabase struct {
	root map[string]any
}

func newFakeDatabase() *fakeDatabase {
	return &fakeDatabase{root: map[string]any{}}
}

func (f *fakeDatabase) Set(_ context.Context, path store.Path, value any) error {
	raw, err := json.Marshal(value)
	if err != nil {
		return err
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return err
	}

	segments := strings.Split(path.String(), "/")
	node := f.root
	for _, segment := range segments[:len(segments)-1] {
		child, ok := node[segment].(map[string]any)
		if !ok {
			child = map[string]any{}
			node[segment] = child
		}
		node = child
	}
	node[segments[len(segments)-1]] = decoded

	return nil
}

func (f *fakeDatabase) Get(_ context.Context, path store.Path, into any) error {
	var current any = f.root
	for _, segment := range strings.Split(path.String(), "/") {
		node, ok := current.(map[string]any)
		if !ok {
			return nil
		}
		current, ok = node[segment]
		if !ok {
			return nil
		}
	}

	raw, err := json.Marshal(current)
	if err != nil {
		return err
	}

	return json.Unmarshal(raw, into)
}

// fakeIdentity implements IdentityProvider with canned responses.
type fakeIdentity struct {
	creds     firebase.Credentials
	signInErr error

	nextUID   string
	signUpErr error

	lastEmail    string
	lastPassword string
}

func (f *fakeIdentity) SignIn(_ context.Context, email, password string) (firebase.Credentials, error) {
	f.lastEmail = email
	f.lastPassword = password
	if f.signInErr != nil {
		return firebase.Credentials{}, f.signInErr
	}
	return f.creds, nil
}

func (f *fakeIdentity) SignUp(_ context.Context, email, password string) (string, error) {
	f.lastEmail = email
	f.lastPassword = password
	if f.signUpErr != nil {
		return "", f.signUpErr
	}
	return f.nextUID, nil
}
