package narrative

import "github.com/dotcommander/qmreport/internal/types"

type guidance struct {
	interpretation string
	remediation    string
	action         string // short form used in the conclusion
}

var metricGuidance = map[types.Metric]guidance{
	types.MetricLinesPerMethod: {
		interpretation: "Lines of code per method (LOC/M) divides each entity's LOC by its method count. High values point to methods that are too long.",
		remediation:    "Recommendation: decompose the longest methods into smaller sub-methods.",
		action:         "decompose into sub-methods",
	},
	types.MetricWMC: {
		interpretation: "WMC (Weighted Methods per Class) is the sum of the cyclomatic complexities of an entity's methods. A high WMC marks a complex class that is hard to test.",
		remediation:    "Recommendation (GRASP High Cohesion): split these classes into smaller classes with well-defined responsibilities.",
		action:         "decompose (GRASP High Cohesion)",
	},
	types.MetricCBO: {
		interpretation: "CBO (Coupling Between Objects) counts the classes an entity is coupled to through incoming and outgoing invocations and attribute accesses. High coupling weakens maintainability.",
		remediation:    "Recommendation: apply GRASP Low Coupling and the Dependency Inversion Principle, or introduce a Facade to cut direct dependencies.",
		action:         "reduce dependencies (DIP, Facade, Low Coupling)",
	},
	types.MetricLCOM: {
		interpretation: "LCOM (Lack of Cohesion of Methods) counts method pairs sharing no attribute minus pairs sharing at least one, floored at 0 (Chidamber-Kemerer). A high LCOM reveals weak syntactic cohesion. Syntactic cohesion differs from semantic cohesion: LCOM = 0 does not by itself imply a good design.",
		remediation:    "Recommendation (SOLID Single Responsibility): each class should have one responsibility. Consider separating the distinct responsibilities.",
		action:         "separate responsibilities (SOLID SRP)",
	},
	types.MetricDIT: {
		interpretation: "DIT (Depth of Inheritance Tree) is an entity's depth in the inheritance hierarchy. Deep hierarchies are harder to understand and maintain.",
		remediation:    "Recommendation: favour composition over inheritance. Consider replacing inheritance levels with delegation or interfaces.",
		action:         "favour composition",
	},
	types.MetricMethods: {
		interpretation: "NOM counts the methods of each entity. Classes with many methods tend to carry several responsibilities.",
		remediation:    "Recommendation: split classes that expose too many methods.",
		action:         "split oversized interfaces",
	},
	types.MetricAttributes: {
		interpretation: "NOA counts the attributes of each entity. Many attributes often signal state that belongs elsewhere.",
		remediation:    "Recommendation: group related attributes into dedicated value objects.",
		action:         "extract value objects",
	},
	types.MetricLines: {
		interpretation: "LOC counts the lines of code of each entity. Very large classes are costly to read and review.",
		remediation:    "Recommendation: break large classes into smaller collaborators.",
		action:         "break into collaborators",
	},
	types.MetricComplexityPerMethod: {
		interpretation: "CC/M divides WMC by the method count, giving the average cyclomatic complexity per method.",
		remediation:    "Recommendation: simplify the branching logic of the most complex methods.",
		action:         "simplify branching",
	},
}

func guidanceFor(m types.Metric) guidance {
	if g, ok := metricGuidance[m]; ok {
		return g
	}
	return guidance{
		interpretation: m.Describe().Title + ".",
		remediation:    "Recommendation: review the entities in the red tier.",
		action:         "review",
	}
}

// Remediation returns the fixed recommendation attached to a metric with
// red-tier entities.
func Remediation(m types.Metric) string {
	return guidanceFor(m).remediation
}
