package urdf

import (
	"encoding/xml"

	"github.com/robodesc/urdfgen/internal/report"
)

// Minimal document model for inspection. Only the structural skeleton is
// decoded; visual, inertial contents and xacro properties are ignored.
type xmlDoc struct {
	XMLName xml.Name
	Name    string     `xml:"name,attr"`
	Links   []xmlLink  `xml:"link"`
	Joints  []xmlJoint `xml:"joint"`
}

type xmlLink struct {
	Name     string    `xml:"name,attr"`
	Inertial *struct{} `xml:"inertial"`
}

type xmlJoint struct {
	Name   string      `xml:"name,attr"`
	Type   string      `xml:"type,attr"`
	Parent *xmlLinkRef `xml:"parent"`
	Child  *xmlLinkRef `xml:"child"`
}

type xmlLinkRef struct {
	Link string `xml:"link,attr"`
}

// Inspect checks an existing document's structural skeleton: well-formed
// XML, a robot root element, named links and joints, resolvable
// parent/child references, and the single-root tree property. It returns
// severity-tagged issues; an empty list means the document passed. Full
// grammar validation against the URDF schema is out of scope.
func Inspect(content []byte) []report.Issue {
	var doc xmlDoc
	if err := xml.Unmarshal(content, &doc); err != nil {
		return []report.Issue{report.Errorf("", "XML parsing error: %v", err)}
	}

	var issues []report.Issue

	if doc.XMLName.Local != "robot" {
		issues = append(issues, report.Errorf("", "root element must be 'robot', got %q", doc.XMLName.Local))
		return issues
	}
	if doc.Name == "" {
		issues = append(issues, report.Warningf("", "robot should have a 'name' attribute"))
	}
	if len(doc.Links) < 2 {
		issues = append(issues, report.Errorf("", "robot must have at least 2 links, found %d", len(doc.Links)))
	}

	linkNames := make(map[string]bool, len(doc.Links))
	for _, l := range doc.Links {
		if l.Name == "" {
			issues = append(issues, report.Errorf("", "all links must have a 'name' attribute"))
			continue
		}
		if linkNames[l.Name] {
			issues = append(issues, report.Errorf("", "duplicate link name %q", l.Name))
		}
		linkNames[l.Name] = true
		if l.Inertial == nil {
			issues = append(issues, report.Warningf("", "link %q missing inertial properties", l.Name))
		}
	}

	childCount := make(map[string]int)
	for _, j := range doc.Joints {
		jname := j.Name
		if jname == "" {
			issues = append(issues, report.Errorf("", "all joints must have a 'name' attribute"))
			jname = "unnamed"
		}
		if j.Type == "" {
			issues = append(issues, report.Errorf("", "joint %q must have a 'type' attribute", jname))
		}
		if j.Parent == nil {
			issues = append(issues, report.Errorf("", "joint %q missing parent", jname))
		} else if !linkNames[j.Parent.Link] {
			issues = append(issues, report.Errorf("", "joint %q parent link %q not found", jname, j.Parent.Link))
		}
		if j.Child == nil {
			issues = append(issues, report.Errorf("", "joint %q missing child", jname))
		} else {
			if !linkNames[j.Child.Link] {
				issues = append(issues, report.Errorf("", "joint %q child link %q not found", jname, j.Child.Link))
			}
			childCount[j.Child.Link]++
			if childCount[j.Child.Link] == 2 {
				issues = append(issues, report.Errorf("", "link %q has more than one parent joint", j.Child.Link))
			}
		}
	}

	// Tree property: exactly one link is no joint's child.
	if len(doc.Links) >= 2 {
		roots := 0
		for name := range linkNames {
			if childCount[name] == 0 {
				roots++
			}
		}
		if roots != 1 {
			issues = append(issues, report.Errorf("", "expected exactly one root link, found %d", roots))
		}
	}

	return issues
}
