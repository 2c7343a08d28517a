package vision

const courseExtractionPrompt = `Tu es un assistant spécialisé dans l'extraction de contenu pédagogique.

Analyse cette image de cours (page de manuel, fiche de révision, notes de cours, etc.) et extrais son contenu de manière structurée.

Retourne le contenu sous ce format EXACT :

TITRE: [titre du cours ou de la section, ou "Sans titre" si absent]
MATIERE: [matière détectée : Mathématiques, Physique-Chimie, SVT, Histoire-Géographie, Français, Anglais, Philosophie, etc.]
NIVEAU: [niveau estimé : 6ème, 5ème, 4ème, 3ème, 2nde, 1ère, Terminale, ou "Inconnu"]

CONTENU:
[Retranscris fidèlement TOUT le contenu textuel de l'image.
- Conserve la structure : titres, sous-titres, listes, définitions, formules
- Pour les formules mathématiques, utilise une notation lisible (ex: x^2, sqrt(x), a/b)
- Pour les schémas, décris-les brièvement entre crochets : [Schéma : ...]
- Conserve les exemples et exercices résolus présents dans le cours]

MOTS_CLES: [liste de 5-10 mots-clés séparés par des virgules, concepts importants du cours]`

const exerciseExtractionPrompt = `Tu es un assistant spécialisé dans l'extraction d'exercices scolaires.

Analyse cette image d'exercice et extrais son contenu de manière précise.

Retourne le contenu sous ce format EXACT :

MATIERE: [matière : Mathématiques, Physique-Chimie, SVT, Histoire-Géographie, Français, Anglais, etc.]
TYPE: [type d'exercice : Problème, QCM, Dissertation, Exercice d'application, Rédaction, etc.]

ENONCE:
[Retranscris l'énoncé COMPLET et fidèle de l'exercice.
- Inclus toutes les données, valeurs numériques, unités
- Inclus toutes les questions (Q1, Q2, etc.)
- Pour les formules, utilise une notation lisible
- Si des figures ou tableaux sont présents, décris-les entre crochets]`
