// Package etree writes the docset's Info.plist property list using
// beevik/etree.
package etree

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/beevik/etree"
	"github.com/fwojciec/kdoc"
)

// Info is the metadata a documentation viewer reads from Info.plist.
type Info struct {
	Identifier     string
	Name           string
	PlatformFamily string
	IndexFilePath  string
}

// Property list keys.
const (
	KeyIdentifier     = "CFBundleIdentifier"
	KeyName           = "CFBundleName"
	KeyPlatformFamily = "DocSetPlatformFamily"
	KeyIsDashDocset   = "isDashDocset"
	KeyIndexFilePath  = "dashIndexFilePath"
)

const plistDoctype = `DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd"`

// WritePlist writes info as an XML property list to path, creating parent
// directories.
func WritePlist(path string, info Info) error {
	if info.Identifier == "" || info.Name == "" {
		return kdoc.Errorf(kdoc.EINVALID, "plist requires identifier and name")
	}

	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.CreateDirective(plistDoctype)

	plist := doc.CreateElement("plist")
	plist.CreateAttr("version", "1.0")
	dict := plist.CreateElement("dict")

	addString(dict, KeyIdentifier, info.Identifier)
	addString(dict, KeyName, info.Name)
	if info.PlatformFamily != "" {
		addString(dict, KeyPlatformFamily, info.PlatformFamily)
	}
	dict.CreateElement("key").SetText(KeyIsDashDocset)
	dict.CreateElement("true")
	if info.IndexFilePath != "" {
		addString(dict, KeyIndexFilePath, info.IndexFilePath)
	}

	doc.Indent(2)

	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return err
	}
	if err := doc.WriteToFile(path); err != nil {
		return fmt.Errorf("writing plist: %w", err)
	}
	return nil
}

// ReadPlist reads the string-valued keys of the property list at path.
// Boolean keys are reported as "true" or "false".
func ReadPlist(path string) (map[string]string, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromFile(path); err != nil {
		return nil, fmt.Errorf("parsing plist: %w", err)
	}

	var dict *etree.Element
	if plist := doc.SelectElement("plist"); plist != nil {
		dict = plist.SelectElement("dict")
	}
	if dict == nil {
		return nil, kdoc.Errorf(kdoc.EINVALID, "plist has no dict")
	}

	values := make(map[string]string)
	var key string
	for _, el := range dict.ChildElements() {
		switch el.Tag {
		case "key":
			key = el.Text()
		case "string":
			values[key] = el.Text()
		case "true", "false":
			values[key] = el.Tag
		}
	}
	return values, nil
}

func addString(dict *etree.Element, key, value string) {
	dict.CreateElement("key").SetText(key)
	dict.CreateElement("string").SetText(value)
}
