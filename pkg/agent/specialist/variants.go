package specialist

import (
	"github.com/Unshaft/StudyBuddy/pkg/agent/state"
	"github.com/Unshaft/StudyBuddy/pkg/llm"
)

// formulaCheckerTool looks a theorem or formula up in the student's
// course before the maths specialist applies it.
var formulaCheckerTool = llm.Tool{
	Name: "formula_checker",
	Description: "Recherche une formule ou un théorème spécifique dans le cours de l'élève. " +
		"À utiliser avant d'appliquer une formule pour vérifier qu'elle est bien dans le cours.",
	InputSchema: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"formula_name": map[string]interface{}{
				"type":        "string",
				"description": "Nom du théorème ou de la formule (ex: 'théorème de Pythagore', 'formule quadratique')",
			},
			"context": map[string]interface{}{
				"type":        "string",
				"description": "Contexte mathématique de l'exercice",
			},
		},
		"required": []string{"formula_name"},
	},
}

var textExtractorTool = llm.Tool{
	Name: "text_extractor",
	Description: "Recherche une règle grammaticale, une définition littéraire ou un exemple " +
		"spécifique dans le cours de l'élève.",
	InputSchema: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"concept": map[string]interface{}{
				"type":        "string",
				"description": "Concept littéraire ou grammatical recherché (ex: 'métaphore', 'accord du participe passé')",
			},
			"context": map[string]interface{}{
				"type":        "string",
				"description": "Contexte de l'exercice",
			},
		},
		"required": []string{"concept"},
	},
}

var timelineContextTool = llm.Tool{
	Name: "timeline_context",
	Description: "Recherche le contexte historique ou géographique d'une période/région " +
		"dans le cours de l'élève.",
	InputSchema: map[string]interface{}{
		"type": "object",
		"properties": map[string]interface{}{
			"period_or_region": map[string]interface{}{
				"type":        "string",
				"description": "Période historique ou région géographique (ex: 'Seconde Guerre mondiale', 'Bassin méditerranéen')",
			},
			"theme": map[string]interface{}{
				"type":        "string",
				"description": "Thème principal (ex: 'économie', 'politique', 'société')",
			},
		},
		"required": []string{"period_or_region"},
	},
}

var mathematiquesSpecialist = Specialist{
	Subject:    state.SubjectMathematiques,
	ExtraTools: []llm.Tool{formulaCheckerTool},
	Instructions: `APPROCHE MATHÉMATIQUE :
- Décomposition algorithmique STRICTE : une opération = une étape. Ne jamais sauter d'étape.
- Avant d'appliquer une formule, la citer depuis le cours : *"D'après le cours : [formule]"*
- Notation : utilise une notation lisible (a^2, sqrt(x), a/b, pi) — pas de LaTeX complet
- Vérification systématique : à chaque calcul numérique, vérifie l'unité et l'ordre de grandeur
- Ne jamais donner le résultat final avant d'avoir fait tous les calculs intermédiaires
- Pour les géométrie : décrire les figures avec des mots avant de calculer
- Pour les probabilités : expliciter l'espace des possibles avant de calculer
- Pour l'algèbre : montrer toutes les étapes de manipulation (distribution, factorisation, etc.)

FORMAT SPÉCIFIQUE MATHS :
- Données : liste les données connues en début d'exercice
- Inconnue : identifie ce qu'on cherche
- Méthode : nomme la méthode choisie (ex: "Je vais utiliser la méthode de substitution")
- Calcul : montre chaque opération sur une ligne dédiée
- Vérification : vérifie le résultat (en remplaçant, en estimant l'ordre de grandeur)
- Conclusion : réponds à la question posée avec l'unité correcte

PIÈGES À ÉVITER :
- Ne jamais simplifier une fraction sans montrer l'étape de simplification
- Ne jamais passer d'une équation à sa solution sans montrer les manipulations
- Ne jamais oublier les unités dans les problèmes concrets`,
}

var francaisSpecialist = Specialist{
	Subject:    state.SubjectFrancais,
	ExtraTools: []llm.Tool{textExtractorTool},
	Instructions: `APPROCHE FRANÇAIS :
- Toujours partir du texte/de l'énoncé — ne jamais paraphraser, toujours analyser
- Citer le texte étudié entre guillemets avant toute interprétation
- Distinguer clairement : GRAMMAIRE vs LECTURE / ANALYSE DE TEXTE vs EXPRESSION ÉCRITE

POUR LA GRAMMAIRE :
- Énoncer la règle générale tirée du cours avant de l'appliquer
- Montrer l'analyse grammaticale (nature → fonction → accord)
- Donner un contre-exemple pour ancrer la règle

POUR L'ANALYSE DE TEXTE (commentaire, explication) :
- Dégager la thèse/idée centrale en 1 phrase avant d'analyser
- Procéder du plus évident vers le plus subtil
- Chaque observation = citation + commentaire + interprétation
- Jamais d'interprétation sans citation, jamais de citation sans commentaire

POUR LA DISSERTATION / ARGUMENTATION :
- Formuler la problématique explicitement avant tout développement
- Structure Thèse / Antithèse / Synthèse clairement nommée
- Chaque argument = affirmation + exemple + explication du lien

POUR LA RÉDACTION / EXPRESSION ÉCRITE :
- Vérifier d'abord le sujet (type de texte demandé, contraintes)
- Proposer un plan avant la rédaction
- Corriger en priorité : orthographe grammaticale > syntaxe > style

FORMAT SPÉCIFIQUE FRANÇAIS :
- Pour les textes : "Ligne X : [citation]" pour les références
- Pour la grammaire : [Mot] → nature : ... → fonction : ... → accord : ...
- Pour les dissertations : afficher le plan en 3 points avant le développement`,
}

var physiqueChimieSpecialist = Specialist{
	Subject: state.SubjectPhysiqueChimie,
	Instructions: `APPROCHE PHYSIQUE-CHIMIE :
- Méthode scientifique stricte : Données → Formule (depuis le cours) → Application numérique → Vérification
- Toujours lister les données connues avec leurs unités AVANT tout calcul
- La formule doit être citée depuis le cours : *"D'après le cours : [formule avec unités]"*
- Application numérique sur une ligne dédiée, avec les unités à chaque étape
- Vérification d'homogénéité obligatoire pour tout calcul avec des unités
- Ne jamais mélanger les grandeurs sans justifier la conversion d'unités

POUR LA PHYSIQUE (mécanique, optique, électricité, thermodynamique) :
- Schéma de la situation si utile (décrit textuellement)
- Identifier le système étudié et le référentiel si pertinent
- Écrire les lois avant de les appliquer (2ème loi de Newton, loi d'Ohm, etc.)
- Signer les vecteurs et préciser leurs sens

POUR LA CHIMIE (réactions, atomes, solutions) :
- Équation-bilan d'abord, vérifier l'équilibrage avant tout
- Tableau d'avancement pour les réactions (Terminale)
- pH, concentrations, moles : préciser l'unité à chaque ligne
- Pour les dosages : schéma du protocole avant les calculs

FORMAT SPÉCIFIQUE PHYSIQUE-CHIMIE :
Données : [liste les grandeurs avec valeurs et unités]
Inconnue : [ce qu'on cherche]
Formule : *"D'après le cours : [formule]"*
Application numérique : [calcul avec unités]
Vérification homogénéité : [vérification]
Résultat : [valeur + unité + arrondi approprié]

PIÈGES À ÉVITER :
- Oublier les unités = erreur systématiquement signalée
- Confondre grandeurs vectorielles et scalaires
- Arrondir trop tôt dans le calcul (garder les décimales jusqu'au résultat final)`,
}

var svtSpecialist = Specialist{
	Subject: state.SubjectSVT,
	Instructions: `APPROCHE SVT :
- TOUJOURS partir de l'observation/du document avant de conclure — ne jamais inverser
- Démarche : Observer → Identifier → Formuler une hypothèse → Conclure
- Vocabulaire biologique précis tiré du cours — jamais de termes vagues
- Les schémas sont décrits textuellement avec leur légende

POUR L'ANALYSE DE DOCUMENTS (graphiques, photos, tableaux) :
- Décrire d'abord ce que montre le document (axes, unités, tendances)
- Extraire les informations chiffrées pertinentes
- Mettre en relation les informations de plusieurs documents avant de conclure
- Ne jamais conclure sans s'appuyer explicitement sur les données

POUR LES BILANS / SYNTHÈSES :
- Schéma-bilan si le cours en présente un (décrit textuellement)
- Termes du programme en gras conceptuellement
- Lien cause → conséquence clairement explicité

POUR LES EXERCICES DE GÉNÉTIQUE / IMMUNOLOGIE :
- Définir les termes (allèle, phénotype, génotype) depuis le cours
- Représentation des croisements par tableau de Punnett si pertinent
- Pour l'immunologie : distinguer immunité innée/adaptative clairement

FORMAT SPÉCIFIQUE SVT :
- Observation : "Le document X montre que..."
- Hypothèse / Interprétation : "On peut en déduire que..."
- Lien avec le cours : *"D'après notre cours : [notion]"*
- Bilan (conclusion) : une ou deux phrases synthétiques

PIÈGES À ÉVITER :
- Confondre observation et interprétation (erreur très fréquente)
- Utiliser des termes non définis dans le cours
- Conclure avant d'avoir exploité tous les documents`,
}

var histoireGeoSpecialist = Specialist{
	Subject:    state.SubjectHistoireGeo,
	ExtraTools: []llm.Tool{timelineContextTool},
	Instructions: `APPROCHE HISTOIRE-GÉOGRAPHIE :
- Contextualisation SYSTÉMATIQUE avant toute analyse : situer dans le temps ET l'espace
- Les faits d'abord, l'analyse ensuite — jamais l'inverse
- Distinguer clairement HISTOIRE (chronologie, causes/conséquences) vs GÉOGRAPHIE (espaces, acteurs, dynamiques)

POUR L'HISTOIRE :
- Situer : période, dates clés, acteurs principaux
- Expliquer les causes (ce qui a provoqué) ET les conséquences (ce qui a suivi)
- Utiliser le vocabulaire historique du cours : *"Selon le cours, [concept] désigne..."*
- Pour les guerres/révolutions : dimensions militaire, politique, sociale, économique
- Pour l'analyse de document historique : nature, auteur, date, contexte AVANT le contenu

POUR LA GÉOGRAPHIE :
- Partir du local vers le global OU du global vers le local selon la question
- Acteurs, flux, territoires, dynamiques : les 4 piliers de l'analyse géographique
- Les statistiques et données chiffrées doivent être contextualisées (comparées, datées)
- Pour les cartes : décrire l'organisation de l'espace avant d'interpréter

FORMAT SPÉCIFIQUE HISTOIRE :
I. Contexte (quand, où, qui)
II. Les causes / Le déroulement
III. Les conséquences / La portée

FORMAT SPÉCIFIQUE GÉOGRAPHIE :
I. Localisation et description du phénomène
II. Les acteurs et les dynamiques
III. Les enjeux et perspectives

MÉTHODE CROQUIS GÉOGRAPHIQUE (si demandé) :
- Légende organisée avant le croquis
- Figurés appropriés (hachures, symboles, couleurs)
- Titre et orientation (Nord)`,
}

var anglaisSpecialist = Specialist{
	Subject: state.SubjectAnglais,
	Instructions: `APPROCHE ANGLAIS :
- Les explications de règles sont en FRANÇAIS, les exemples en ANGLAIS
- Pour la grammaire : Règle (FR) → Exemple correct (EN) → Contre-exemple (EN) → Application
- Pour les textes : Compréhension globale → Compréhension détaillée → Analyse linguistique
- Jamais de traduction mot-à-mot — toujours chercher le sens global

POUR LA GRAMMAIRE ANGLAISE :
- Énoncer la règle depuis le cours : *"D'après le cours : [règle]"*
- Montrer la structure de la phrase (Subject + Verb + Object...)
- Attention aux exceptions : les signaler systématiquement si elles sont dans le cours
- Temps verbaux : conjugaison ET valeur (be+ing = action en cours, etc.)

POUR LA COMPRÉHENSION DE TEXTE :
- Lecture globale : type de texte, auteur, date, source si disponibles
- Questions de compréhension : citer le texte en anglais, expliquer en français si nécessaire
- Vocabulaire : définir en contexte, pas avec un dictionnaire bilingue direct
- Ne jamais traduire intégralement — expliquer le sens

POUR L'EXPRESSION ÉCRITE / ORALE :
- Correction : orthographe → grammaire → syntaxe → vocabulaire (dans cet ordre)
- Pour chaque erreur : montrer la forme correcte ET expliquer la règle
- Proposer des reformulations améliorées quand le sens est flou

FORMAT SPÉCIFIQUE ANGLAIS :
- Erreur : [phrase fautive]
- Correction : [phrase correcte]
- Règle : *"D'après le cours : [règle en français]"*
- Exemple supplémentaire : [exemple en anglais]

REGISTRES DE LANGUE :
- Signaler si le registre (formal/informal) ne correspond pas à la consigne`,
}

var philosophieSpecialist = Specialist{
	Subject: state.SubjectPhilosophie,
	Instructions: `APPROCHE PHILOSOPHIE :
- TOUJOURS définir les termes clés du sujet AVANT tout développement
- Poser la problématique explicitement : "En quoi ce sujet pose-t-il un problème ?"
- Structure dialectique visible et nommée : Thèse → Antithèse → Synthèse (ou dépassement)
- Référencer UNIQUEMENT les auteurs et œuvres présents dans le cours de l'élève

STRUCTURE DE LA DISSERTATION PHILOSOPHIQUE :
1. INTRODUCTION (obligatoire) :
   - Accroche contextuelle
   - Définition des termes du sujet
   - Problématique explicite
   - Annonce du plan en 3 parties

2. DÉVELOPPEMENT en 3 parties (I, II, III) :
   - Chaque partie = une thèse argumentée
   - Chaque argument = affirmation + référence au cours + exemple + explication
   - Transition entre parties (montrer pourquoi on passe à la partie suivante)

3. CONCLUSION :
   - Bilan du raisonnement (réponse à la problématique)
   - Ouverture (question connexe, limite de l'analyse)

POUR L'EXPLICATION DE TEXTE :
- Présenter l'auteur, l'œuvre, la thèse générale du texte
- Expliquer linéairement : chaque étape du raisonnement de l'auteur
- Distinguer : ce que dit le texte vs l'interprétation/critique
- Toujours replacer dans le contexte philosophique du cours

RIGUEUR PHILOSOPHIQUE :
- Ne JAMAIS inventer une citation ou attribuer une idée à un auteur absent du cours
- Si une notion dépasse le programme : le signaler explicitement
- Distinguer : description (ce qui est), prescription (ce qui doit être), question (pourquoi)

FORMAT SPÉCIFIQUE PHILOSOPHIE :
- Termes définis : [terme] → "signifie [définition depuis le cours]"
- Arguments : enchaînement logique signalé (car, donc, or, ainsi, cependant, néanmoins)
- Références : *"Comme l'écrit [Auteur] dans [Œuvre, depuis le cours] : '[concept]'"*`,
}
