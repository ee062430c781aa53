package schema

import "strings"

// Column roles recognised by AnalyzeMeaning before falling back to the
// abbreviation decoding.
const (
	MeaningAudit      = "audit"
	MeaningDeleteFlag = "deleteflag"
	MeaningActiveFlag = "activeflag"
)

var auditColumns = map[string]bool{
	"create_time": true, "create_user": true, "create_by": true, "created_at": true, "created_by": true,
	"update_time": true, "update_user": true, "update_by": true, "updated_at": true, "updated_by": true,
	"modify_time": true, "modify_user": true,
}

var deleteFlags = map[string]bool{
	"is_del": true, "is_deleted": true, "del_flag": true, "delete_flag": true,
}

var abbreviations = map[string]string{
	// Common Nouns
	"nm": "name", "dt": "date", "no": "number", "cd": "code",
	"desc": "description", "amt": "amount", "cnt": "count", "qty": "quantity",
	"addr": "address", "tel": "phone", "hp": "phone", "ph": "phone",
	"pwd": "password", "passwd": "password", "img": "image",
	"msg": "message", "txt": "text", "usr": "user", "emp": "employee",
	"dept": "department", "grp": "group", "cat": "category",
	"mid": "id", "uid": "id", "pid": "id", "param": "parameter",

	// Verbs / Status
	"reg": "registered", "mod": "modified", "del": "deleted", "cre": "created",
	"upd": "updated", "yn": "yesno", "stat": "status", "sts": "status",
	"typ": "type", "val": "value", "ord": "order", "seq": "sequence",
	"is": "yesno", "use": "yesno", "flg": "flag",
}

// AnalyzeMeaning classifies a column from its name and comment. Audit and
// soft-delete columns get a fixed role; anything else is returned as its
// decoded name ("usr_nm" becomes "user name").
func AnalyzeMeaning(colName, comment string) string {
	n := strings.ToLower(colName)
	c := strings.ToLower(comment)

	switch {
	case auditColumns[n]:
		return MeaningAudit
	case deleteFlags[n]:
		return MeaningDeleteFlag
	case n == "is_active":
		return MeaningActiveFlag
	}

	// 코멘트 키워드 우선 (한국어/중국어/영어)
	if strings.Contains(c, "삭제") || strings.Contains(c, "删除") || strings.Contains(c, "deleted") {
		if strings.Contains(c, "여부") || strings.Contains(c, "标") || strings.Contains(c, "flag") {
			return MeaningDeleteFlag
		}
	}
	if strings.Contains(c, "생성일") || strings.Contains(c, "수정일") || strings.Contains(c, "创建时间") || strings.Contains(c, "更新时间") {
		return MeaningAudit
	}

	parts := strings.Split(n, "_")
	decoded := make([]string, 0, len(parts))
	for _, part := range parts {
		if full, ok := abbreviations[part]; ok {
			decoded = append(decoded, full)
		} else {
			decoded = append(decoded, part)
		}
	}
	return strings.Join(decoded, " ")
}
