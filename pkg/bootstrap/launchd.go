package bootstrap

import (
	"path/filepath"
	"strconv"

	"github.com/beevik/etree"

	"github.com/arthur-debert/rig/pkg/errors"
)

// AgentLabel identifies the daily refresh agent in launchd
const AgentLabel = "com.rig.refresh"

// WriteRefreshAgent writes a launchd agent plist that runs `rig install`
// daily at noon. It returns the path of the written plist. macOS only;
// callers gate on the target.
func WriteRefreshAgent(agentsDir, rigBin, logFile string) (string, error) {
	doc := etree.NewDocument()
	doc.CreateProcInst("xml", `version="1.0" encoding="UTF-8"`)
	doc.CreateDirective(`DOCTYPE plist PUBLIC "-//Apple//DTD PLIST 1.0//EN" "http://www.apple.com/DTDs/PropertyList-1.0.dtd"`)

	plist := doc.CreateElement("plist")
	plist.CreateAttr("version", "1.0")
	dict := plist.CreateElement("dict")

	addString(dict, "Label", AgentLabel)

	dict.CreateElement("key").SetText("ProgramArguments")
	args := dict.CreateElement("array")
	args.CreateElement("string").SetText(rigBin)
	args.CreateElement("string").SetText("install")

	dict.CreateElement("key").SetText("StartCalendarInterval")
	interval := dict.CreateElement("dict")
	addInteger(interval, "Hour", 12)
	addInteger(interval, "Minute", 0)

	addString(dict, "StandardOutPath", logFile)
	addString(dict, "StandardErrorPath", logFile)

	doc.Indent(2)
	path := filepath.Join(agentsDir, AgentLabel+".plist")
	if err := doc.WriteToFile(path); err != nil {
		return "", errors.Wrapf(err, errors.ErrFileWrite, "failed to write %s", path)
	}
	return path, nil
}

func addString(dict *etree.Element, key, value string) {
	dict.CreateElement("key").SetText(key)
	dict.CreateElement("string").SetText(value)
}

func addInteger(dict *etree.Element, key string, value int) {
	dict.CreateElement("key").SetText(key)
	dict.CreateElement("integer").SetText(strconv.Itoa(value))
}
