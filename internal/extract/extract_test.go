package extract

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractUnsupportedType(t *testing.T) {
	e := New()

	assert.Nil(t, e.Extract("yaml", []byte("key: value\n")))
	assert.Nil(t, e.Extract("", []byte("anything")))
}

func TestSupported(t *testing.T) {
	e := New()

	assert.True(t, e.Supported("python"))
	assert.True(t, e.Supported("typescript"), "alias of javascript")
	assert.True(t, e.Supported("cpp"), "alias of c")
	assert.False(t, e.Supported("markdown"))
}

func TestExtractPython(t *testing.T) {
	e := New()
	content := []byte(`import os
from collections import defaultdict

class Scanner:
    pass

def run(path):
    return path

async def run_async(path):
    return path

if __name__ == "__main__":
    run(".")
`)

	meta := e.Extract("python", content)
	require.NotNil(t, meta)
	assert.Equal(t, []string{"os", "collections"}, meta.Imports)
	assert.Equal(t, []string{"run", "run_async"}, meta.Functions)
	assert.Equal(t, []string{"Scanner"}, meta.Classes)
	assert.True(t, meta.HasMainGuard)
}

func TestExtractJavaScript(t *testing.T) {
	e := New()
	content := []byte(`import express from "express";
import "./setup";
const fs = require("fs");

export class Server {}

export function start(port) {}
const stop = async () => {};

if (require.main === module) {
  start(3000);
}
`)

	meta := e.Extract("javascript", content)
	require.NotNil(t, meta)
	assert.Equal(t, []string{"express", "./setup", "fs"}, meta.Imports)
	assert.Equal(t, []string{"start", "stop"}, meta.Functions)
	assert.Equal(t, []string{"Server"}, meta.Classes)
	assert.True(t, meta.HasMainGuard)
}

func TestExtractGoImportBlock(t *testing.T) {
	e := New()
	content := []byte(`package main

import (
	"fmt"
	"os"

	slg "log/slog"
)

type Server struct{}

func NewServer() *Server { return nil }

func main() {
	fmt.Println(os.Args)
}
`)

	meta := e.Extract("go", content)
	require.NotNil(t, meta)
	assert.Equal(t, []string{"fmt", "os", "log/slog"}, meta.Imports)
	assert.Contains(t, meta.Functions, "NewServer")
	assert.Contains(t, meta.Functions, "main")
	assert.Equal(t, []string{"Server"}, meta.Classes)
	assert.True(t, meta.HasMainGuard)
}

func TestExtractGoSingleImport(t *testing.T) {
	e := New()
	content := []byte(`package util

import "strings"

func Upper(s string) string { return strings.ToUpper(s) }
`)

	meta := e.Extract("go", content)
	require.NotNil(t, meta)
	assert.Equal(t, []string{"strings"}, meta.Imports)
	assert.False(t, meta.HasMainGuard)
}

func TestExtractGoStringLiteralNotImport(t *testing.T) {
	e := New()
	// A bare string constant outside an import block must not be
	// collected as an import
	content := []byte(`package cfg

var defaultName = map[string]string{
	"key": "value",
}

const banner = ` + "`" + `
"not/an/import"
` + "`" + `
`)

	meta := e.Extract("go", content)
	require.NotNil(t, meta)
	assert.Empty(t, meta.Imports)
}

func TestExtractRust(t *testing.T) {
	e := New()
	content := []byte(`use std::io;
extern crate serde;

pub struct Config {}

pub async fn load() {}

fn main() {
    println!("hi");
}
`)

	meta := e.Extract("rust", content)
	require.NotNil(t, meta)
	assert.Equal(t, []string{"std::io", "serde"}, meta.Imports)
	assert.Equal(t, []string{"load", "main"}, meta.Functions)
	assert.Equal(t, []string{"Config"}, meta.Classes)
	assert.True(t, meta.HasMainGuard)
}

func TestExtractC(t *testing.T) {
	e := New()
	content := []byte(`#include <stdio.h>
#include "local.h"

struct point { int x; };

int main(int argc, char **argv)
{
	return 0;
}
`)

	meta := e.Extract("c", content)
	require.NotNil(t, meta)
	assert.Equal(t, []string{"stdio.h", "local.h"}, meta.Imports)
	assert.True(t, meta.HasMainGuard)
}

func TestExtractBinaryContent(t *testing.T) {
	e := New()

	meta := e.Extract("python", []byte{0x00, 0x01, 0xff, 0xfe})
	require.NotNil(t, meta)
	assert.Empty(t, meta.Imports)
	assert.Empty(t, meta.Functions)
	assert.Empty(t, meta.Classes)
	assert.False(t, meta.HasMainGuard)
	assert.NotNil(t, meta.Imports, "empty but present")
}

func TestExtractEmptyContent(t *testing.T) {
	e := New()

	meta := e.Extract("python", nil)
	require.NotNil(t, meta)
	assert.Empty(t, meta.Imports)
}

func TestExtractMalformedSourceNoError(t *testing.T) {
	e := New()
	content := []byte(`def broken(((
class (((
import
`)

	meta := e.Extract("python", content)
	require.NotNil(t, meta)
	assert.Equal(t, []string{"broken"}, meta.Functions, "patterns still fire on what they can read")
	assert.Empty(t, meta.Classes)
	assert.Empty(t, meta.Imports)
}
