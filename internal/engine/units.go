package engine

import (
	"path"
	"strings"

	"github.com/redactyl/drcscan/internal/types"
)

// UnitFromFile maps a source file to a unit using abapGit file naming:
//
//	zreport.prog.abap             PROG ZREPORT
//	zcl_foo.clas.abap             CLAS ZCL_FOO
//	zcl_foo.clas.locals_imp.abap  CLAS ZCL_FOO, include LOCALS_IMP
//	zfg.fugr.lzfgtop.abap         FUGR SAPLZFG, include LZFGTOP
//	#ns#zreport.prog.abap         PROG /NS/ZREPORT
//
// Files that do not follow the convention become PROG units named after
// their stem.
func UnitFromFile(rel string, data []byte) types.Unit {
	base := path.Base(strings.ReplaceAll(rel, "\\", "/"))
	parts := strings.Split(base, ".")
	if len(parts) > 1 {
		parts = parts[:len(parts)-1]
	}
	obj := objectName(parts[0])

	code := string(data)
	start, end := 1, strings.Count(code, "\n")+1
	if strings.HasSuffix(code, "\n") {
		end--
	}
	u := types.Unit{
		PgmName:   obj,
		IncName:   obj,
		Type:      "PROG",
		StartLine: &start,
		EndLine:   &end,
		Code:      &code,
	}
	if len(parts) < 2 {
		return u
	}
	kind := strings.ToUpper(parts[1])
	sub := ""
	if len(parts) > 2 {
		sub = objectName(parts[2])
	}
	switch kind {
	case "PROG":
	case "CLAS":
		u.Type = kind
		name := obj
		u.Name = &name
		u.ClassImplementation = &name
		if sub != "" {
			u.IncName = sub
		}
	case "FUGR":
		u.Type = kind
		u.PgmName = "SAPL" + obj
		u.IncName = u.PgmName
		if sub != "" {
			u.IncName = sub
		}
	case "INTF", "TYPE", "ENHO":
		u.Type = kind
	}
	return u
}

func objectName(s string) string {
	return strings.ToUpper(strings.ReplaceAll(s, "#", "/"))
}
