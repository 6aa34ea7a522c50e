package main

import (
	"bytes"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/goliatone/go-contactform/pkg/model"
	"github.com/goliatone/go-contactform/pkg/renderers/tui"
	"github.com/goliatone/go-contactform/pkg/testsupport"
)

func execute(t *testing.T, a *app, args ...string) (string, error) {
	t.Helper()
	if a == nil {
		a = newApp()
	}
	cmd := newRootCmd(a)
	var out bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&out)
	cmd.SetArgs(args)
	err := cmd.ExecuteContext(context.Background())
	return out.String(), err
}

func writeFile(t *testing.T, name, data string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(data), 0o600))
	return path
}

func TestSchemaCommand(t *testing.T) {
	out, err := execute(t, nil, "schema")
	require.NoError(t, err)

	var doc map[string]any
	require.NoError(t, json.Unmarshal([]byte(out), &doc))
	assert.Equal(t, "3.0.3", doc["openapi"])
	assert.Contains(t, out, "ContactSubmission")

	out, err = execute(t, nil, "schema", "--format", "yaml")
	require.NoError(t, err)
	require.NoError(t, yaml.Unmarshal([]byte(out), &doc))
	assert.Contains(t, out, "minLength: 5")
}

func TestSchemaCommand_Check(t *testing.T) {
	valid := writeFile(t, "valid.yaml", "firstName: daniel\nlastName: casas\nemail: ezra@email.com\n")
	out, err := execute(t, nil, "schema", "--check", valid)
	require.NoError(t, err)
	assert.Contains(t, out, "ok")

	invalid := writeFile(t, "invalid.json", `{"firstName":"123","lastName":"casas","email":"ezra@mozmail"}`)
	out, err = execute(t, nil, "schema", "--check", invalid)
	assert.ErrorIs(t, err, ErrPayloadInvalid)
	assert.Contains(t, out, "firstName: ")
	assert.Contains(t, out, "email: ")
	assert.NotContains(t, out, "lastName: ")
}

func TestSchemaCommand_CheckFirstProblemPerField(t *testing.T) {
	payload := writeFile(t, "blank.json", `{"firstName":"   ","lastName":"casas","email":"ezra@email.com"}`)

	out, err := execute(t, nil, "schema", "--check", payload)
	assert.ErrorIs(t, err, ErrPayloadInvalid)
	assert.Equal(t, 1, strings.Count(out, "firstName: "), out)

	out, err = execute(t, nil, "schema", "--check", payload, "--all")
	assert.ErrorIs(t, err, ErrPayloadInvalid)
	assert.Equal(t, 2, strings.Count(out, "firstName: "), out)
	assert.NotContains(t, out, "lastName: ")
}

func TestRenderCommand_Text(t *testing.T) {
	values := writeFile(t, "values.yaml", "firstName: daniel\nlastName: casas\nemail: ezra@email.com\nmessage: message text\n")

	out, err := execute(t, nil, "render", "--renderer", "text", "--values", values, "--submit")
	require.NoError(t, err)
	assert.Contains(t, out, "You Submitted:")
	assert.Contains(t, out, "First Name: daniel")
	assert.Contains(t, out, "Message: message text")
}

func TestRenderCommand_InvalidValues(t *testing.T) {
	values := writeFile(t, "values.json", `{"firstName":"warren","lastName":"longname"}`)

	out, err := execute(t, nil, "render", "--values", values, "--submit")
	require.NoError(t, err)

	doc := testsupport.MustParseHTML(t, []byte(out))
	errs := doc.QueryAllByTestID("error")
	require.Len(t, errs, 1)
	assert.Equal(t, "email is a required field", testsupport.TextContent(errs[0]))
}

func TestRenderCommand_OutputFileWithContent(t *testing.T) {
	copyFile := writeFile(t, "copy.yaml", "title: Say hello\nlabels:\n  email: Reply address\n")
	target := filepath.Join(t.TempDir(), "form.html")

	out, err := execute(t, nil, "render", "--document", "--content", copyFile, "--output", target)
	require.NoError(t, err)
	assert.Contains(t, out, "Form written to")

	data, err := os.ReadFile(target)
	require.NoError(t, err)
	html := string(data)
	assert.True(t, strings.HasPrefix(html, "<!doctype html>"))
	assert.Contains(t, html, "Say hello")
	assert.Contains(t, html, "Reply address*")
}

func TestRenderCommand_Errors(t *testing.T) {
	_, err := execute(t, nil, "render", "--renderer", "pdf")
	assert.Error(t, err)

	values := writeFile(t, "values.yaml", "phone: 555\n")
	_, err = execute(t, nil, "render", "--values", values)
	assert.Error(t, err)

	_, err = execute(t, nil, "render", "--log-level", "loud")
	assert.Error(t, err)
}

type scriptedDriver struct {
	answers map[string]string
}

func (d *scriptedDriver) answer(message string, validate func(string) error) (string, error) {
	value := d.answers[strings.TrimSuffix(message, "*")]
	if validate != nil {
		if err := validate(value); err != nil {
			return "", err
		}
	}
	return value, nil
}

func (d *scriptedDriver) Input(_ context.Context, cfg tui.InputConfig) (string, error) {
	return d.answer(cfg.Message, cfg.Validator)
}

func (d *scriptedDriver) TextArea(_ context.Context, cfg tui.TextAreaConfig) (string, error) {
	return d.answer(cfg.Message, cfg.Validator)
}

func (d *scriptedDriver) Confirm(context.Context, tui.ConfirmConfig) (bool, error) {
	return true, nil
}

func (d *scriptedDriver) Info(context.Context, string) error {
	return nil
}

func TestPromptCommand(t *testing.T) {
	a := newApp()
	a.promptDriver = &scriptedDriver{answers: map[string]string{
		"First Name": "daniel",
		"Last Name":  "casas",
		"Email":      "ezra@email.com",
	}}

	out, err := execute(t, a, "prompt")
	require.NoError(t, err)

	var record model.SubmittedRecord
	require.NoError(t, json.Unmarshal([]byte(out), &record))
	assert.Equal(t, model.SubmittedRecord{FirstName: "daniel", LastName: "casas", Email: "ezra@email.com"}, record)
}

func TestPromptCommand_RejectsFormat(t *testing.T) {
	a := newApp()
	a.promptDriver = &scriptedDriver{}
	_, err := execute(t, a, "prompt", "--format", "xml")
	assert.Error(t, err)
}
