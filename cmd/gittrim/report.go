package gittrim

import (
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/foriequal0/git-trim/internal/classifier"
	"github.com/foriequal0/git-trim/internal/model"
	"github.com/foriequal0/git-trim/internal/planner"
	"github.com/foriequal0/git-trim/internal/tableutil"
	"github.com/foriequal0/git-trim/internal/termstyle"
)

// printReport writes one row per classified branch: its local
// classification, its upstream (if any) and the upstream's classification,
// and the HEAD/base flags. On a narrow terminal it drops the UPSTREAM
// column, then FLAGS too, the same way status.go thins its own table.
func printReport(cmd *cobra.Command, result classifier.Result) {
	showUpstream, showFlags := true, true
	if width, ok := tableWidth(cmd); ok {
		if width < tinyTableWidth {
			showUpstream, showFlags = false, false
		} else if width < narrowTableWidth {
			showUpstream = false
		}
	}

	w := tableutil.New(cmd.OutOrStdout(), colorOutputEnabled)
	headers := "BRANCH\tLOCAL"
	if showUpstream {
		headers += "\tUPSTREAM"
	}
	headers += "\tREMOTE"
	if showFlags {
		headers += "\tFLAGS"
	}
	_ = tableutil.PrintHeaders(w, false, headers)

	for _, br := range result.Branches {
		upstream := "-"
		remoteClass := "-"
		if br.Remote != nil {
			upstream = br.Remote.Remote + "/" + br.Remote.ShortName
			remoteClass = colorClass(br.RemoteClass)
		}
		writeReportRow(w, br.Local.ShortName, colorClass(br.LocalClass), upstream, remoteClass, branchFlags(br), showUpstream, showFlags)
	}
	for _, rt := range result.RemoteTrackings {
		writeReportRow(w, "-", "-", rt.Remote.Remote+"/"+rt.Remote.ShortName, colorClass(rt.Class), "", showUpstream, showFlags)
	}
	_ = w.Flush()
}

func writeReportRow(w io.Writer, branch, local, upstream, remote, flags string, showUpstream, showFlags bool) {
	cells := []string{branch, local}
	if showUpstream {
		cells = append(cells, upstream)
	}
	cells = append(cells, remote)
	if showFlags {
		cells = append(cells, flags)
	}
	_, _ = fmt.Fprintln(w, strings.Join(cells, "\t"))
}

func colorClass(class model.Classification) string {
	return termstyle.Colorize(colorOutputEnabled, string(class), termstyle.ClassColor(class))
}

func branchFlags(br model.BranchResult) string {
	var flags []string
	if br.IsBase {
		flags = append(flags, "base")
	}
	if br.IsHead {
		flags = append(flags, "HEAD")
	}
	return strings.Join(flags, ",")
}

// printPlan writes one row per planned mutation, in execution order.
func printPlan(cmd *cobra.Command, plan planner.Plan) {
	w := tableutil.New(cmd.OutOrStdout(), colorOutputEnabled)
	_ = tableutil.PrintHeaders(w, false, "ACTION\tTARGET")

	for _, s := range plan.Steps {
		action, target := describeStep(s)
		_, _ = fmt.Fprintf(w, "%s\t%s\n", action, target)
	}
	_ = w.Flush()
}

func describeStep(s planner.Step) (action, target string) {
	switch s.Kind {
	case planner.Detach:
		return "detach HEAD", string(s.DetachTo)
	case planner.DeleteRemote:
		return "push --delete " + s.Remote, strings.Join(s.Names, ", ")
	case planner.DeleteRemoteTracking:
		return "delete remote-tracking ref", s.Remote + "/" + s.RemoteTrackingName
	case planner.DeleteLocal:
		return "delete local branch", s.LocalName
	default:
		return string(s.Kind), ""
	}
}
