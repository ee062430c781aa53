package procgen

import (
	"strings"
	"text/template"
)

// Slot names, in the order they appear in the procedure.
const (
	SlotHeader       = "header"
	SlotDeclarations = "declarations"
	SlotCursor       = "cursor"
	SlotHandler      = "handler"
	SlotLoop         = "loop"
	SlotMain         = "main"
	SlotChild        = "child"
	SlotFooter       = "footer"
)

var Slots = []string{SlotHeader, SlotDeclarations, SlotCursor, SlotHandler, SlotLoop, SlotMain, SlotChild, SlotFooter}

// Step labels recorded in step_info before each phase runs.
const (
	StepMainLookup  = "main table lookup"
	StepMainWrite   = "main table write"
	StepChildDelete = "child table delete"
	StepChildUpdate = "child table update"
	StepChildInsert = "child table insert"
)

// Result row status values.
const (
	StatusSuccess     = "success"
	StatusInterrupted = "interrupted"
)

// procData is everything the template needs, already quoted and rendered.
type procData struct {
	Name        string // quoted procedure name
	RawName     string
	GeneratedAt string

	// header
	SourceMain, SourceChild, TargetMain, TargetChild string
	MainUniqueKey, ChildForeignKey, ChildUniqueKey   string
	FilterLines                                      []string

	// declarations
	SrcPKType, MainKeyType, TgtPKType string

	// quoted references
	SrcMain, SrcChild, TgtMain, TgtChild string
	SrcPK, TgtPK, TgtChildPK             string
	MainKey, ChildFK, ChildKey           string
	Filter                               string

	MainSet          string
	MainInsertCols   string
	MainInsertValues string

	ChildSet          string
	ChildInsertCols   string
	ChildInsertValues string

	StepMainLookup, StepMainWrite                   string
	StepChildDelete, StepChildUpdate, StepChildInsert string
	StatusSuccess, StatusInterrupted                string
}

// Each slot renders with a leading newline and no trailing one, so slots
// compose with blank lines between them.
const procTemplate = `
{{define "header"}}
-- ====================================================================
-- Parent/child sync procedure {{.RawName}}
-- Generated at: {{.GeneratedAt}}
-- --------------------------------------------------------------------
--   Source main table : {{.SourceMain}}
--   Source child table: {{.SourceChild}}
--   Target main table : {{.TargetMain}}
--   Target child table: {{.TargetChild}}
--   Main unique key   : {{.MainUniqueKey}}
--   Child foreign key : {{.ChildForeignKey}}
--   Child unique key  : {{.ChildUniqueKey}}
{{- if .FilterLines}}
--   Filter condition  :
{{- range .FilterLines}}
--     {{.}}
{{- end}}
{{- else}}
--   Filter condition  : (none)
{{- end}}
-- ====================================================================
{{- end}}

{{define "declarations"}}
    DECLARE done INT DEFAULT 0;
    DECLARE step_info VARCHAR(255) DEFAULT '';
    DECLARE synced_rows INT DEFAULT 0;
    DECLARE src_main_id {{.SrcPKType}};
    DECLARE src_unique_key {{.MainKeyType}};
    DECLARE dest_main_id {{.TgtPKType}};
{{- end}}

{{define "cursor"}}
    DECLARE main_cursor CURSOR FOR
        SELECT {{.SrcPK}}, {{.MainKey}}
        FROM {{.SrcMain}}
{{- if .Filter}}
        WHERE {{.Filter}}
        ;
{{- else}};{{end}}
    DECLARE CONTINUE HANDLER FOR NOT FOUND SET done = 1;
{{- end}}

{{define "handler"}}
    DECLARE EXIT HANDLER FOR SQLEXCEPTION
    BEGIN
        GET DIAGNOSTICS CONDITION 1
            @sync_sql_state = RETURNED_SQLSTATE, @sync_error_msg = MESSAGE_TEXT;
        ROLLBACK;
        SELECT
            '{{.StatusInterrupted}}' AS status,
            step_info AS error_step,
            src_unique_key AS error_source_key,
            COALESCE(@sync_sql_state, 'UNKNOWN') AS sql_state,
            COALESCE(@sync_error_msg, 'No diagnostics available, see error_step') AS error_detail,
            synced_rows AS synced_rows;
    END;
{{- end}}

{{define "main"}}
        SET step_info = '{{.StepMainLookup}}';
        SET dest_main_id = NULL;
        BEGIN
            DECLARE CONTINUE HANDLER FOR NOT FOUND SET dest_main_id = NULL;
            SELECT {{.TgtPK}} INTO dest_main_id
            FROM {{.TgtMain}}
            WHERE {{.MainKey}} = src_unique_key;
        END;

        SET step_info = '{{.StepMainWrite}}';
{{- if .MainSet}}
        IF dest_main_id IS NOT NULL THEN
            UPDATE {{.TgtMain}} dest
            INNER JOIN {{.SrcMain}} src ON src.{{.SrcPK}} = src_main_id
            SET
{{.MainSet}}
            WHERE dest.{{.TgtPK}} = dest_main_id;
        ELSE
{{- else}}
        IF dest_main_id IS NULL THEN
{{- end}}
            INSERT INTO {{.TgtMain}} (
{{.MainInsertCols}}
            )
            SELECT
{{.MainInsertValues}}
            FROM {{.SrcMain}} src
            WHERE src.{{.SrcPK}} = src_main_id;
            SET dest_main_id = LAST_INSERT_ID();
        END IF;
{{- end}}

{{define "child"}}
        SET step_info = '{{.StepChildDelete}}';
        DELETE FROM {{.TgtChild}}
        WHERE {{.ChildFK}} = dest_main_id
          AND {{.ChildKey}} NOT IN (
            SELECT {{.ChildKey}}
            FROM {{.SrcChild}}
            WHERE {{.ChildFK}} = src_main_id
          );
{{- if .ChildSet}}

        SET step_info = '{{.StepChildUpdate}}';
        UPDATE {{.TgtChild}} dest
        INNER JOIN {{.SrcChild}} src
            ON dest.{{.ChildFK}} = dest_main_id
           AND dest.{{.ChildKey}} = src.{{.ChildKey}}
        SET
{{.ChildSet}}
        WHERE src.{{.ChildFK}} = src_main_id;
{{- end}}

        SET step_info = '{{.StepChildInsert}}';
        INSERT INTO {{.TgtChild}} (
{{.ChildInsertCols}}
        )
        SELECT
{{.ChildInsertValues}}
        FROM {{.SrcChild}} src
        LEFT JOIN {{.TgtChild}} dest
            ON dest.{{.ChildFK}} = dest_main_id
           AND dest.{{.ChildKey}} = src.{{.ChildKey}}
        WHERE src.{{.ChildFK}} = src_main_id
          AND dest.{{.TgtChildPK}} IS NULL;
{{- end}}

{{define "loop"}}
    SET @sync_sql_state = NULL, @sync_error_msg = NULL;

    OPEN main_cursor;
    main_loop: LOOP
        FETCH main_cursor INTO src_main_id, src_unique_key;
        IF done = 1 THEN
            LEAVE main_loop;
        END IF;

        START TRANSACTION;
{{template "main" .}}
{{template "child" .}}

        COMMIT;
        SET synced_rows = synced_rows + 1;
    END LOOP main_loop;
{{- end}}

{{define "footer"}}
    CLOSE main_cursor;

    SELECT
        '{{.StatusSuccess}}' AS status,
        NULL AS error_step,
        NULL AS error_source_key,
        NULL AS sql_state,
        NULL AS error_detail,
        synced_rows AS synced_rows;
{{- end}}

{{define "procedure"}}
{{- template "header" .}}
CREATE PROCEDURE {{.Name}}()
BEGIN
{{- template "declarations" .}}
{{template "cursor" .}}
{{template "handler" .}}
{{template "loop" .}}
{{template "footer" .}}
END
{{- end}}
`

var procTmpl = template.Must(template.New("procgen").Parse(procTemplate))

func render(name string, data procData) (string, error) {
	var sb strings.Builder
	if err := procTmpl.ExecuteTemplate(&sb, name, data); err != nil {
		return "", err
	}
	return strings.TrimLeft(sb.String(), "\n"), nil
}
