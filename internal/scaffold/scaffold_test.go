package scaffold_test

import (
	"archive/zip"
	"bytes"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"

	"github.com/gyaneshwarpardhi/minecraftutils/internal/scaffold"
)

func validParams() scaffold.Params {
	return scaffold.Params{
		Name:    "HelloWorld",
		Package: "com.example.hello_world",
		Author:  "md_5",
		Version: "1.0",
	}
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*scaffold.Params)
		fields map[string]string
	}{
		{"valid", func(*scaffold.Params) {}, nil},
		{"empty name", func(p *scaffold.Params) { p.Name = "" }, map[string]string{"name": "This field is required."}},
		{"name with digit", func(p *scaffold.Params) { p.Name = "Hello2" }, map[string]string{"name": "Field is not alphanumeric"}},
		{"package with dash", func(p *scaffold.Params) { p.Package = "com.ex-ample" }, map[string]string{"package": "Field does not have a valid Java package name"}},
		{"package empty segment", func(p *scaffold.Params) { p.Package = "com..example" }, map[string]string{"package": "Field does not have a valid Java package name"}},
		{"package underscore only", func(p *scaffold.Params) { p.Package = "com._" }, map[string]string{"package": "Field does not have a valid Java package name"}},
		{"blank author", func(p *scaffold.Params) { p.Author = "   " }, map[string]string{"author": "This field is required."}},
		{"symbol version", func(p *scaffold.Params) { p.Version = "..." }, map[string]string{"version": "Field has invalid characters"}},
		{"everything wrong", func(p *scaffold.Params) { *p = scaffold.Params{} }, map[string]string{
			"name":    "This field is required.",
			"package": "This field is required.",
			"author":  "This field is required.",
			"version": "This field is required.",
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validParams()
			tt.mutate(&p)
			err := p.Validate()
			if tt.fields == nil {
				assert.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, scaffold.ErrInvalidParams)
			var verr *scaffold.ValidationError
			require.True(t, errors.As(err, &verr))
			assert.Equal(t, tt.fields, verr.Fields)
		})
	}
}

func TestIsJavaPackage(t *testing.T) {
	assert.True(t, scaffold.IsJavaPackage("net.md_five.bungee"))
	assert.True(t, scaffold.IsJavaPackage("single"))
	assert.False(t, scaffold.IsJavaPackage("com.example."))
	assert.False(t, scaffold.IsJavaPackage("com.example1"))
}

func readArchive(t *testing.T, data []byte) map[string]string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	out := make(map[string]string)
	for _, f := range zr.File {
		assert.Equal(t, zip.Deflate, f.Method, f.Name)
		rc, err := f.Open()
		require.NoError(t, err)
		body, err := io.ReadAll(rc)
		require.NoError(t, err)
		require.NoError(t, rc.Close())
		out[f.Name] = string(body)
	}
	return out
}

func TestArchive_LayoutWithoutListener(t *testing.T) {
	data, err := scaffold.New("").Archive(validParams())
	require.NoError(t, err)

	files := readArchive(t, data)
	assert.Len(t, files, 3)
	assert.Contains(t, files, "pom.xml")
	assert.Contains(t, files, "src/main/resources/plugin.yml")
	require.Contains(t, files, "src/main/java/com/example/hello_world/HelloWorld.java")

	main := files["src/main/java/com/example/hello_world/HelloWorld.java"]
	assert.Contains(t, main, "package com.example.hello_world;")
	assert.Contains(t, main, "public class HelloWorld extends Plugin")
	assert.NotContains(t, main, "registerListener")

	assert.Contains(t, files["pom.xml"], "<version>"+scaffold.DefaultAPIVersion+"</version>")
	assert.Contains(t, files["pom.xml"], "<artifactId>HelloWorld</artifactId>")
}

func TestArchive_LayoutWithListener(t *testing.T) {
	p := validParams()
	p.IncludeListener = true
	data, err := scaffold.New("1.19-R0.1-SNAPSHOT").Archive(p)
	require.NoError(t, err)

	files := readArchive(t, data)
	assert.Len(t, files, 4)
	require.Contains(t, files, "src/main/java/com/example/hello_world/HelloWorldListener.java")
	assert.Contains(t, files["src/main/java/com/example/hello_world/HelloWorldListener.java"],
		"public class HelloWorldListener implements Listener")
	assert.Contains(t, files["src/main/java/com/example/hello_world/HelloWorld.java"],
		"registerListener(this, new HelloWorldListener(this))")
	assert.Contains(t, files["pom.xml"], "<version>1.19-R0.1-SNAPSHOT</version>")
}

func TestRender_PluginManifestIsValidYAML(t *testing.T) {
	p := validParams()
	p.Author = `Jane "J" O'Neil: #1`
	p.Version = "2.0"

	files, err := scaffold.New("").Render(p)
	require.NoError(t, err)
	require.Equal(t, "src/main/resources/plugin.yml", files[1].Path)

	var manifest map[string]string
	require.NoError(t, yaml.Unmarshal(files[1].Body, &manifest))
	assert.Equal(t, map[string]string{
		"name":    "HelloWorld",
		"main":    "com.example.hello_world.HelloWorld",
		"version": "2.0",
		"author":  `Jane "J" O'Neil: #1`,
	}, manifest)
}

func TestRender_EscapesPomValues(t *testing.T) {
	p := validParams()
	p.Version = "1.0<beta>&"
	files, err := scaffold.New("").Render(p)
	require.NoError(t, err)
	assert.Contains(t, string(files[0].Body), "<version>1.0&lt;beta&gt;&amp;</version>")
}

func TestRender_InvalidParams(t *testing.T) {
	_, err := scaffold.New("").Archive(scaffold.Params{Name: "x"})
	assert.ErrorIs(t, err, scaffold.ErrInvalidParams)
}

func TestFilenameAndSourceDir(t *testing.T) {
	assert.Equal(t, "HelloWorld.zip", scaffold.Filename(validParams()))
	assert.Equal(t, "src/main/java/a/b/c", scaffold.SourceDir("a.b.c"))
}
