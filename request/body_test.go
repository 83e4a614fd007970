// Copyright 2021 The apiaction Authors. All rights reserved.
// Use of this source code is governed by an MIT-style
// license that can be found in the LICENSE file.

package request

import (
	"encoding/json"
	"errors"
	"io"
	"net/url"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
)

func TestBodyBytes(t *testing.T) {
	testCases := []struct {
		name        string
		body        interface{}
		b           []byte
		contentType string
	}{
		{"nil", nil, nil, ""},
		{"string", "hello world", []byte("hello world"), ContentTypeText},
		{"raw JSON", json.RawMessage(`{"a":1}`), []byte(`{"a":1}`), ContentTypeJSON},
		{"bytes", []byte{1, 2, 3}, []byte{1, 2, 3}, ContentTypeBinary},
		{"form", url.Values{"ham": {"eggs", "spam"}}, []byte("ham=eggs&ham=spam"), ContentTypeForm},
		{"reader", strings.NewReader("baz"), []byte("baz"), ContentTypeBinary},
		{"map", map[string]interface{}{"a": "hi"}, []byte(`{"a":"hi"}`), ContentTypeJSON},
		{"struct", struct {
			Name string `json:"name"`
		}{"rex"}, []byte(`{"name":"rex"}`), ContentTypeJSON},
	}
	for _, testCase := range testCases {
		t.Run(testCase.name, func(t *testing.T) {
			b, contentType, err := BodyBytes(testCase.body)
			assert.NoError(t, err)
			assert.Equal(t, testCase.b, b)
			assert.Equal(t, testCase.contentType, contentType)
		})
	}
	t.Run("unmarshallable", func(t *testing.T) {
		b, contentType, err := BodyBytes(make(chan int))
		assert.Nil(t, b)
		assert.Empty(t, contentType)
		assert.Error(t, err)
	})
	t.Run("reader errors", func(t *testing.T) {
		expectedErr := errors.New("ham")
		t.Run("Read", func(t *testing.T) {
			m := &mockReadCloser{}
			m.Test(t)
			m.On("Read", mock.Anything).Return(0, expectedErr).Once()
			m.On("Close").Return(nil).Once()
			b, _, err := BodyBytes(m)
			assert.Nil(t, b)
			assert.ErrorIs(t, err, expectedErr)
			m.AssertExpectations(t)
		})
		t.Run("Close", func(t *testing.T) {
			m := &mockReadCloser{}
			m.Test(t)
			m.On("Read", mock.Anything).Return(0, io.EOF).Once()
			m.On("Close").Return(expectedErr).Once()
			b, _, err := BodyBytes(m)
			assert.Nil(t, b)
			assert.ErrorIs(t, err, expectedErr)
			m.AssertExpectations(t)
		})
	})
}

type mockReadCloser struct {
	mock.Mock
}

func (m *mockReadCloser) Read(p []byte) (n int, err error) {
	args := m.Called(p)
	n = args.Int(0)
	err = args.Error(1)
	return
}

func (m *mockReadCloser) Close() error {
	args := m.Called()
	return args.Error(0)
}
